package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"smarttable/cmd"
	"smarttable/internal/source"
	"smarttable/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if config == nil {
		return
	}

	// The TUI owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if config.LogFile != "" {
		f, err := tea.LogToFile(config.LogFile, "smarttable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	// Resolve data sources
	opts := source.Options{Timeout: config.Timeout}
	sources := make([]ui.Source, 0, len(config.Sources))
	for _, spec := range config.Sources {
		provider, err := source.Open(spec, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", spec.Location, err)
			os.Exit(1)
		}
		sources = append(sources, ui.Source{Name: spec.DisplayName(), Provider: provider})
	}

	prefsPath, err := ui.DefaultPrefsPath()
	if err != nil {
		logger.Warn("preferences disabled", "err", err)
	}

	// Create and run Bubble Tea app
	app := ui.New(sources, config.Table, ui.Options{
		Logger:    logger,
		PrefsPath: prefsPath,
		Timeout:   config.Timeout,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
