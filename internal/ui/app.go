package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"smarttable/internal/model"
	"smarttable/internal/table"
	"smarttable/internal/util"
)

// Source is one table to open in its own tab.
type Source struct {
	Name     string
	Provider model.Provider
}

// Options configures the root model.
type Options struct {
	Logger *slog.Logger
	// PrefsPath is where UI preferences are persisted; empty disables
	// persistence.
	PrefsPath string
	// Timeout bounds each provider call; zero means no timeout.
	Timeout time.Duration
	// Clipboard writes yanked values; nil uses the system clipboard.
	Clipboard func(string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	sources []Source
	tabs    []*TableView
	active  int
	mode    model.Mode
	gState  GState

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool

	input     textinput.Model
	keys      KeyMap
	inputKeys InputKeyMap

	prefs     UIPreferences
	prefsPath string
	timeout   time.Duration
	log       *slog.Logger
	clipboard func(string) error
}

// New creates a new root model with one tab per source.
func New(sources []Source, cfg table.Config, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	write := opts.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}

	tabs := make([]*TableView, len(sources))
	for i, src := range sources {
		tabs[i] = NewTableView(src.Name, cfg)
	}

	return Model{
		sources:   sources,
		tabs:      tabs,
		mode:      model.ModeNav,
		gState:    GStateIdle,
		input:     textinput.New(),
		keys:      DefaultKeyMap(),
		inputKeys: DefaultInputKeyMap(),
		prefs:     loadUIPreferences(opts.PrefsPath),
		prefsPath: opts.PrefsPath,
		timeout:   opts.Timeout,
		log:       logger,
		clipboard: write,
	}
}

// Init starts loading every source.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.sources))
	for i, src := range m.sources {
		cmds = append(cmds, loadRecordsCmd(i, src, m.timeout))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.mode != model.ModeNav {
			return m.handleInputMode(msg)
		}

		if m.columnJump {
			if msg.String() == "esc" {
				m.columnJump = false
				m.info = ""
				return m, nil
			}
			if n, err := strconv.Atoi(msg.String()); err == nil {
				t := m.currentTab()
				if t != nil && t.JumpToColumn(n) {
					m.columnJump = false
					m.info = fmt.Sprintf("Jumped to column %d", n)
					m.persistCurrentTablePrefs()
					return m, nil
				}
				m.info = fmt.Sprintf("Column %d unavailable", n)
				return m, nil
			}
			m.columnJump = false
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}

		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		return m.handleNavMode(msg)

	case model.RecordsLoadedMsg:
		if msg.Tab < 0 || msg.Tab >= len(m.tabs) {
			return m, nil
		}
		t := m.tabs[msg.Tab]
		if msg.Err != nil {
			t.Fail(msg.Err)
			m.log.Error("load failed", "table", t.Name(), "err", msg.Err)
			m.error = msg.Err.Error()
			return m, nil
		}
		if err := t.Load(context.Background(), msg.Records, m.log); err != nil {
			m.error = err.Error()
			return m, nil
		}
		t.ApplyPrefs(m.prefs.Tables[t.Name()])
		return m, nil

	case model.CopiedMsg:
		if msg.Err != nil {
			m.error = fmt.Sprintf("copy failed: %v", msg.Err)
			return m, nil
		}
		m.info = fmt.Sprintf("Copied %q", util.TruncateString(msg.Value, 40))
		return m, nil

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		return m, nil
	}

	// Cursor blink and other input messages
	if m.mode != model.ModeNav {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	t := m.currentTab()
	var breadcrumbParts []string
	if t != nil {
		breadcrumbParts = []string{t.Name()}
	}

	header := renderHeader(breadcrumbParts, m.width)
	tabs := renderTabs(m.tabs, m.active, m.width)
	footer := RenderHelp(m.mode, m.width)

	parts := []string{header, tabs}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}
	if m.mode == model.ModeFilter && t != nil {
		label := ""
		if h := t.activeHeader(); h != nil {
			label = h.Label
		}
		parts = append(parts, FilterBarStyle.Width(m.width).Render("filter "+label+": "+m.input.View()))
	}

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	contentHeight := max(0, m.height-used-lipgloss.Height(footer))

	var content string
	if t == nil {
		content = EmptyStateStyle.Render("No tables to show.")
	} else {
		editor := ""
		if m.mode == model.ModeEdit {
			editor = m.input.View()
		}
		content = t.View(m.width, contentHeight, editor)
	}

	// Ensure content fills the available height to anchor footer at bottom
	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		Render(content)

	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTabs(tabs []*TableView, active, width int) string {
	var tabStrings []string
	for i, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if i == active {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		name := tab.Name()
		if tab.err != nil {
			name += " !"
		}
		tabStrings = append(tabStrings, tabStyle.Render(name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, width int) string {
	title := HeaderStyle.Render("smarttable")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	dateStr := time.Now().Format("Mon 02 Jan")
	right := BreadcrumbStyle.Render(dateStr) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateIdle {
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle
		if t := m.currentTab(); t != nil {
			t.JumpToTop()
		}
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		if len(m.tabs) > 0 {
			m.active = (m.active + 1) % len(m.tabs)
			m.info = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		if len(m.tabs) > 0 {
			m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
			m.info = ""
		}
		return m, nil
	}

	t := m.currentTab()
	if t == nil || !t.Ready() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		t.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		t.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		t.HalfPageUp(m.height / 2)
	case key.Matches(msg, m.keys.NextColumn):
		t.NextColumn()
		m.persistCurrentTablePrefs()
	case key.Matches(msg, m.keys.PrevColumn):
		t.PrevColumn()
		m.persistCurrentTablePrefs()
	case key.Matches(msg, m.keys.ColumnJump):
		m.columnJump = true
		m.info = "Jump to column: press 1-9 (esc to cancel)"
	case key.Matches(msg, m.keys.Sort):
		if info, ok := t.SortActiveColumn(); ok {
			m.info = info
		} else {
			m.info = "Column is not sortable"
		}
	case key.Matches(msg, m.keys.Edit):
		in, ok := t.EditActiveCell()
		if !ok {
			m.info = "Cell is not editable"
			return m, nil
		}
		m.mode = model.ModeEdit
		m.info = ""
		m.input = newInput("", in.Value, in.Width)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Mark):
		if !t.DeletionEnabled() {
			m.info = "Row deletion is disabled"
			return m, nil
		}
		if marked, ok := t.ToggleMark(); ok {
			if marked {
				m.info = "Row marked for deletion"
			} else {
				m.info = "Row unmarked"
			}
		}
	case key.Matches(msg, m.keys.Delete):
		n, ok := t.DeleteMarked()
		switch {
		case !ok:
			m.info = "Row deletion is disabled"
		case n == 0:
			m.info = "No rows marked"
		default:
			m.info = "Deleted " + util.Plural(n, "row", "rows")
		}
	case key.Matches(msg, m.keys.Filter):
		if !t.CanFilter() {
			m.info = "Filtering is disabled"
			return m, nil
		}
		m.mode = model.ModeFilter
		m.info = ""
		m.input = newInput("", t.FilterValue(), 0)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.ClearFilter):
		if t.ClearFilter() {
			m.info = "Filter cleared"
		}
	case key.Matches(msg, m.keys.HideColumn):
		if t.HideActiveColumn() {
			m.info = "Column hidden"
			m.persistCurrentTablePrefs()
		} else {
			m.info = "Cannot hide last visible column"
		}
	case key.Matches(msg, m.keys.ShowColumns):
		t.ShowAllColumns()
		m.info = "All columns shown"
		m.persistCurrentTablePrefs()
	case key.Matches(msg, m.keys.Yank):
		if value, ok := t.SelectedValue(); ok {
			return m, copyCmd(m.clipboard, value)
		}
	}
	return m, nil
}

// handleInputMode routes keys to the edit or filter input.
func (m Model) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.currentTab()
	if t == nil {
		m.mode = model.ModeNav
		return m, nil
	}

	switch m.mode {
	case model.ModeEdit:
		switch {
		case key.Matches(msg, m.inputKeys.Accept):
			t.CommitEdit(m.input.Value())
			m.leaveInputMode()
			m.info = "Cell updated"
			return m, nil
		case key.Matches(msg, m.inputKeys.Cancel):
			t.CancelEdit()
			m.leaveInputMode()
			m.info = "Edit cancelled"
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		t.SetEditorValue(m.input.Value())
		return m, cmd

	case model.ModeFilter:
		switch {
		case key.Matches(msg, m.inputKeys.Accept):
			m.leaveInputMode()
			return m, nil
		case key.Matches(msg, m.inputKeys.Cancel):
			t.ClearFilter()
			m.leaveInputMode()
			m.info = "Filter cleared"
			return m, nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			t.SetFilter(v)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) leaveInputMode() {
	m.mode = model.ModeNav
	m.input.Blur()
}

func (m *Model) currentTab() *TableView {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m *Model) persistCurrentTablePrefs() {
	t := m.currentTab()
	if t == nil || !t.Ready() {
		return
	}
	m.prefs.Tables[t.Name()] = t.Prefs()
	if err := saveUIPreferences(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("failed to save preferences", "err", err)
	}
}

func newInput(prompt, value string, width int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.SetValue(value)
	in.CursorEnd()
	if width > 0 {
		in.Width = width
	}
	in.Focus()
	return in
}

// Commands

func loadRecordsCmd(tab int, src Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if src.Provider == nil {
			return model.RecordsLoadedMsg{Tab: tab}
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		records, err := src.Provider(ctx)
		if err != nil {
			return model.RecordsLoadedMsg{Tab: tab, Err: fmt.Errorf("failed to load %s: %w", src.Name, err)}
		}
		return model.RecordsLoadedMsg{Tab: tab, Records: records}
	}
}

func copyCmd(write func(string) error, value string) tea.Cmd {
	return func() tea.Msg {
		return model.CopiedMsg{Value: value, Err: write(value)}
	}
}
