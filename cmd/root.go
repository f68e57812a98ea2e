package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"smarttable/internal/source"
	"smarttable/internal/table"
)

// Config holds CLI configuration.
type Config struct {
	Sources []source.Spec
	Table   table.Config
	LogFile string
	Timeout time.Duration
}

type flags struct {
	configPath string
	table      string
	selector   string
	startAfter int
	noFilter   bool
	noDelete   bool
	noSort     bool
	logFile    string
	timeout    time.Duration
}

// ParseFlags parses command-line arguments and returns configuration.
// It returns a nil config without error when help or the version was
// printed.
func ParseFlags(version string, args []string) (*Config, error) {
	return parseFlags(version, args, os.Stdout)
}

func parseFlags(version string, args []string, out io.Writer) (*Config, error) {
	// Load .env files first so env-based defaults work with flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	var (
		f      flags
		config *Config
	)
	root := &cobra.Command{
		Use:   "smarttable [flags] [source...]",
		Short: "Sort, filter, edit and prune tabular data in the terminal",
		Long: `smarttable opens one tab per source. A source is a CSV, JSON or YAML
file, an http(s) URL serving a JSON array of objects, or a SQLite
database given as path.db#table.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			c, err := buildConfig(cmd, f, positional)
			if err != nil {
				return err
			}
			config = c
			return nil
		},
	}
	root.SetArgs(args)
	root.SetOut(out)

	fl := root.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "Path to a YAML or TOML config file (default: ~/.smarttable/config.yaml, or SMARTTABLE_CONFIG)")
	fl.StringVar(&f.table, "table", "", "SQLite table to read for database sources without a #table suffix")
	fl.StringVar(&f.selector, "selector", "", "Selector of the grid each tab builds (e.g. table#people.sortable)")
	fl.IntVar(&f.startAfter, "start-after", -1, "Filter once the input reaches this many characters")
	fl.BoolVar(&f.noFilter, "no-filter", false, "Disable column filtering")
	fl.BoolVar(&f.noDelete, "no-delete", false, "Disable bulk row deletion")
	fl.BoolVar(&f.noSort, "no-sort", false, "Disable sorting by header")
	fl.StringVar(&f.logFile, "log-file", "", "Write logs to this file (or set SMARTTABLE_LOG_FILE)")
	fl.DurationVar(&f.timeout, "timeout", 0, "Timeout for loading remote sources")

	if err := root.Execute(); err != nil {
		return nil, err
	}
	return config, nil
}

func buildConfig(cmd *cobra.Command, f flags, positional []string) (*Config, error) {
	// Precedence: flags, then the config file, then SMARTTABLE_LOG_FILE,
	// then defaults.
	config := &Config{Table: table.DefaultConfig(), LogFile: os.Getenv("SMARTTABLE_LOG_FILE")}

	path, explicit := f.configPath, f.configPath != ""
	if path == "" {
		path = os.Getenv("SMARTTABLE_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".smarttable", "config.yaml")
		}
	}
	if path != "" {
		fc, err := LoadConfigFile(path)
		switch {
		case err == nil:
			if err := config.applyFile(fc); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for _, arg := range positional {
		config.Sources = append(config.Sources, source.Parse(arg))
	}
	if f.table != "" {
		for i := range config.Sources {
			if config.Sources[i].Table == "" {
				config.Sources[i].Table = f.table
			}
		}
	}
	if len(config.Sources) == 0 {
		return nil, errors.New("no sources: pass a file, URL or path.db#table, or list sources in the config file")
	}

	if f.selector != "" {
		config.Table.TableSelector = f.selector
	}
	if f.noSort {
		config.Table.SortTrigger = ""
	}
	if f.noDelete {
		config.Table.RowDeleteTrigger = ""
	}
	if f.noFilter {
		config.Table.Filter = nil
	} else if cmd.Flags().Changed("start-after") {
		if f.startAfter < 0 {
			return nil, fmt.Errorf("--start-after must not be negative")
		}
		if config.Table.Filter == nil {
			config.Table.Filter = table.DefaultConfig().Filter
		}
		config.Table.Filter.StartAfter = f.startAfter
	}

	if f.logFile != "" {
		config.LogFile = f.logFile
	}
	if f.timeout > 0 {
		config.Timeout = f.timeout
	}

	return config, nil
}

func (c *Config) applyFile(fc FileConfig) error {
	c.Sources = append(c.Sources, fc.Sources...)
	c.Table = fc.Table.Apply(c.Table)
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
