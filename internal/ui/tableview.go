package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"smarttable/internal/grid"
	"smarttable/internal/model"
	"smarttable/internal/table"
	"smarttable/internal/util"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 32
	checkboxWidth  = 3
)

// TableView is one tab: a grid, the controller that owns it and the cursor.
type TableView struct {
	name string
	cfg  table.Config
	doc  *grid.Document
	ctrl *table.Controller

	loaded bool
	err    error

	cursor         int
	offset         int
	viewportHeight int

	activeColumn int
	hidden       map[int]bool
}

// NewTableView creates an unloaded tab.
func NewTableView(name string, cfg table.Config) *TableView {
	return &TableView{
		name:   name,
		cfg:    cfg,
		hidden: make(map[int]bool),
	}
}

// Name returns the tab label.
func (t *TableView) Name() string {
	return t.name
}

// Load builds a grid for records and initializes a controller on it. The
// grid satisfies the configured table selector, carries one filter input per
// column and the bulk-delete control.
func (t *TableView) Load(ctx context.Context, records []model.Record, logger *slog.Logger) error {
	t.loaded = true
	if logger == nil {
		logger = slog.Default()
	}

	g := &grid.Grid{Element: grid.ElementFor(t.cfg.TableSelector)}
	if g.Tag == "" {
		g.Tag = "table"
	}
	if g.ID == "" {
		g.ID = gridID(t.name)
	}
	g.AttachBody(&grid.Body{})

	if len(records) > 0 {
		if f := t.cfg.Filter; f != nil {
			selector := f.InputsSelector
			if selector == "" {
				selector = table.DefaultFilterInputs
			}
			for i := range records[0] {
				in := grid.NewControl(selector)
				in.Column = i
				g.AddControl(in)
			}
		}
		if t.cfg.RowDeleteTrigger != "" {
			btn := grid.NewControl(t.cfg.RowDeleteTrigger)
			if btn.Tag == "" {
				btn.Tag = "button"
			}
			g.AddControl(btn)
		}
	}

	t.doc = grid.NewDocument()
	t.doc.Add(g)

	provider := func(context.Context) ([]model.Record, error) { return records, nil }
	t.ctrl = table.New(t.doc, t.cfg, provider, logger.With("table", t.name))
	if err := t.ctrl.Init(ctx); err != nil {
		t.err = err
		return err
	}
	if t.Ready() {
		t.fitColumns()
	}
	return nil
}

// Fail records a load error for display.
func (t *TableView) Fail(err error) {
	t.loaded = true
	t.err = err
}

func (t *TableView) fitColumns() {
	g := t.ctrl.Grid()
	rows := t.ctrl.Rows()
	for i, h := range g.Headers {
		w := util.DisplayWidth(h.Label) + 2
		for _, r := range rows {
			w = max(w, util.DisplayWidth(r.Cell(i)))
		}
		g.SetColumnWidth(i, min(max(w, minColumnWidth), maxColumnWidth))
	}
	g.SetColumnWidth(len(g.Headers), checkboxWidth)
}

// Ready reports whether the controller is initialized.
func (t *TableView) Ready() bool {
	return t.ctrl != nil && t.ctrl.Ready()
}

// Controller returns the table controller, or nil before Load.
func (t *TableView) Controller() *table.Controller {
	return t.ctrl
}

func (t *TableView) headers() []*grid.Header {
	if !t.Ready() {
		return nil
	}
	return t.ctrl.Grid().Headers
}

func (t *TableView) nodes() []*grid.RowNode {
	if !t.Ready() {
		return nil
	}
	if b := t.ctrl.Grid().Body(); b != nil {
		return b.Rows
	}
	return nil
}

func (t *TableView) selectedNode() *grid.RowNode {
	nodes := t.nodes()
	if t.cursor < 0 || t.cursor >= len(nodes) {
		return nil
	}
	return nodes[t.cursor]
}

func (t *TableView) selectedCell() *grid.Cell {
	node := t.selectedNode()
	if node == nil || t.activeColumn >= len(node.Cells) {
		return nil
	}
	return node.Cells[t.activeColumn]
}

// SelectedValue returns the text of the cell under the cursor.
func (t *TableView) SelectedValue() (string, bool) {
	cell := t.selectedCell()
	if cell == nil {
		return "", false
	}
	if in := cell.Editor(); in != nil {
		return in.Value, true
	}
	return cell.Text, true
}

func (t *TableView) activeHeader() *grid.Header {
	hs := t.headers()
	if t.activeColumn < 0 || t.activeColumn >= len(hs) {
		return nil
	}
	return hs[t.activeColumn]
}

// SortActiveColumn activates the header of the active column.
func (t *TableView) SortActiveColumn() (string, bool) {
	h := t.activeHeader()
	if h == nil || t.cfg.SortTrigger == "" || !h.HasAttr(t.cfg.SortTrigger) {
		return "", false
	}
	t.ctrl.Grid().Dispatch(&grid.Event{Type: grid.Click, Header: h})

	order := "ascending"
	if h.HasClass("desc") {
		order = "descending"
	}
	return fmt.Sprintf("Sorted %s %s", strings.ToUpper(h.Label), order), true
}

// EditActiveCell double-activates the cell under the cursor and returns the
// shared editor when it attached.
func (t *TableView) EditActiveCell() (*grid.TextInput, bool) {
	cell := t.selectedCell()
	if cell == nil {
		return nil, false
	}
	t.ctrl.Grid().Dispatch(&grid.Event{Type: grid.DblClick, Cell: cell})

	in := t.ctrl.Editor()
	if in == nil || in.Host() != cell {
		return nil, false
	}
	return in, true
}

// CommitEdit blurs the editor with value.
func (t *TableView) CommitEdit(value string) {
	in := t.editor()
	if in == nil {
		return
	}
	in.Value = value
	in.Dispatch(&grid.Event{Type: grid.Blur})
}

// SetEditorValue mirrors typed text into the shared editor.
func (t *TableView) SetEditorValue(value string) {
	if in := t.editor(); in != nil {
		in.Value = value
	}
}

// CancelEdit cancels the open edit.
func (t *TableView) CancelEdit() {
	if in := t.editor(); in != nil {
		in.Dispatch(&grid.Event{Type: grid.Cancel})
	}
}

func (t *TableView) editor() *grid.TextInput {
	if !t.Ready() {
		return nil
	}
	in := t.ctrl.Editor()
	if in == nil || in.Host() == nil {
		return nil
	}
	return in
}

// DeletionEnabled reports whether rows can be marked and deleted.
func (t *TableView) DeletionEnabled() bool {
	return t.Ready() && t.cfg.RowDeleteTrigger != "" && t.ctrl.Grid().QueryControl(t.cfg.RowDeleteTrigger) != nil
}

// ToggleMark flips the checkbox of the row under the cursor.
func (t *TableView) ToggleMark() (marked bool, ok bool) {
	node := t.selectedNode()
	if node == nil || len(node.Cells) == 0 {
		return false, false
	}
	cb := node.Cells[len(node.Cells)-1]
	if cb.Control == nil {
		return false, false
	}
	cb.Control.Checked = !cb.Control.Checked
	t.ctrl.Grid().Dispatch(&grid.Event{Type: grid.Change, Cell: cb})
	return cb.Control.Checked, true
}

// DeleteMarked activates the bulk-delete control and returns how many rows
// were removed.
func (t *TableView) DeleteMarked() (int, bool) {
	if !t.DeletionEnabled() {
		return 0, false
	}
	btn := t.ctrl.Grid().QueryControl(t.cfg.RowDeleteTrigger)
	before := len(t.ctrl.Rows())
	btn.Dispatch(&grid.Event{Type: grid.Click})
	t.clampCursor()
	return before - len(t.ctrl.Rows()), true
}

func (t *TableView) filterInput(column int) *grid.Control {
	if !t.Ready() || t.ctrl.Config().Filter == nil {
		return nil
	}
	for _, in := range t.ctrl.Grid().QueryControls(t.ctrl.Config().Filter.InputsSelector) {
		if in.Column == column {
			return in
		}
	}
	return nil
}

// CanFilter reports whether the active column has a filter input.
func (t *TableView) CanFilter() bool {
	return t.filterInput(t.activeColumn) != nil
}

// FilterValue returns the value of the active column's filter input.
func (t *TableView) FilterValue() string {
	if in := t.filterInput(t.activeColumn); in != nil {
		return in.Value
	}
	return ""
}

// SetFilter types value into the active column's filter input.
func (t *TableView) SetFilter(value string) bool {
	in := t.filterInput(t.activeColumn)
	if in == nil {
		return false
	}
	in.Value = value
	in.Dispatch(&grid.Event{Type: grid.Input})
	t.clampCursor()
	return true
}

// ClearFilter resets the table when a filter is active.
func (t *TableView) ClearFilter() bool {
	if !t.Ready() || !t.ctrl.FilterState().Active {
		return false
	}
	t.ctrl.Reset()
	t.clampCursor()
	return true
}

func (t *TableView) clampCursor() {
	n := len(t.nodes())
	if n == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

func (t *TableView) visibleColumnIndexes() []int {
	var idxs []int
	for i := range t.headers() {
		if !t.hidden[i] {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (t *TableView) ensureVisibleActiveColumn() {
	hs := t.headers()
	if len(hs) == 0 {
		t.activeColumn = 0
		return
	}
	if t.activeColumn >= len(hs) {
		t.activeColumn = 0
	}
	if !t.hidden[t.activeColumn] {
		return
	}
	for i := range hs {
		if !t.hidden[i] {
			t.activeColumn = i
			return
		}
	}
	delete(t.hidden, 0)
	t.activeColumn = 0
}

// NextColumn moves to the next visible column.
func (t *TableView) NextColumn() {
	n := len(t.headers())
	if n == 0 {
		return
	}
	start := t.activeColumn
	for {
		t.activeColumn = (t.activeColumn + 1) % n
		if !t.hidden[t.activeColumn] || t.activeColumn == start {
			return
		}
	}
}

// PrevColumn moves to the previous visible column.
func (t *TableView) PrevColumn() {
	n := len(t.headers())
	if n == 0 {
		return
	}
	start := t.activeColumn
	for {
		t.activeColumn--
		if t.activeColumn < 0 {
			t.activeColumn = n - 1
		}
		if !t.hidden[t.activeColumn] || t.activeColumn == start {
			return
		}
	}
}

// JumpToColumn activates the 1-based column number.
func (t *TableView) JumpToColumn(number int) bool {
	if number < 1 || number > len(t.headers()) {
		return false
	}
	idx := number - 1
	if t.hidden[idx] {
		return false
	}
	t.activeColumn = idx
	return true
}

// HideActiveColumn hides the active column unless it is the last one shown.
func (t *TableView) HideActiveColumn() bool {
	if len(t.visibleColumnIndexes()) <= 1 {
		return false
	}
	t.hidden[t.activeColumn] = true
	t.ensureVisibleActiveColumn()
	return true
}

// ShowAllColumns unhides every column.
func (t *TableView) ShowAllColumns() {
	t.hidden = make(map[int]bool)
}

// ApplyPrefs restores hidden columns and the active column by label.
func (t *TableView) ApplyPrefs(prefs TablePrefs) {
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i, h := range t.headers() {
		if hidden[h.Label] {
			t.hidden[i] = true
		}
		if prefs.ActiveColumn != "" && h.Label == prefs.ActiveColumn {
			t.activeColumn = i
		}
	}
	if len(t.visibleColumnIndexes()) == 0 {
		t.ShowAllColumns()
	}
	t.ensureVisibleActiveColumn()
}

// Prefs returns the preferences to persist for this table.
func (t *TableView) Prefs() TablePrefs {
	var prefs TablePrefs
	for i, h := range t.headers() {
		if t.hidden[i] {
			prefs.HiddenColumns = append(prefs.HiddenColumns, h.Label)
		}
	}
	if h := t.activeHeader(); h != nil {
		prefs.ActiveColumn = h.Label
	}
	return prefs
}

// TableMeta summarizes the active column, sort and filter state.
func (t *TableView) TableMeta() string {
	h := t.activeHeader()
	if h == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(h.Label))}
	for _, sh := range t.headers() {
		switch {
		case sh.HasClass("asc"):
			parts = append(parts, fmt.Sprintf("sort %s asc", strings.ToUpper(sh.Label)))
		case sh.HasClass("desc"):
			parts = append(parts, fmt.Sprintf("sort %s desc", strings.ToUpper(sh.Label)))
		}
	}
	if fs := t.ctrl.FilterState(); fs.Active {
		label := ""
		if fs.Column < len(t.headers()) {
			label = strings.ToUpper(t.headers()[fs.Column].Label)
		}
		parts = append(parts, fmt.Sprintf("filter %s~%q", label, fs.Text))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table. editor is the rendered edit input, shown in the
// cell that currently hosts the shared editor.
func (t *TableView) View(width, height int, editor string) string {
	switch {
	case !t.loaded:
		return EmptyStateStyle.Width(width).Height(height).Render(fmt.Sprintf("Loading %s…", t.name))
	case t.err != nil:
		return ErrorStyle.Width(width).Height(height).Render("Error: " + t.err.Error())
	case t.ctrl == nil || t.ctrl.Grid() == nil:
		return EmptyStateStyle.Width(width).Height(height).Render(fmt.Sprintf("No grid matches %q.", t.cfg.TableSelector))
	case !t.Ready():
		return EmptyStateStyle.Width(width).Height(height).Render("No data to fill the table.")
	}

	hs := t.headers()
	visible := t.visibleColumnIndexes()
	showMarks := t.DeletionEnabled()

	widths := make([]int, 0, len(visible)+1)
	labels := make([]string, 0, len(visible)+1)
	totalFixed := 0
	if showMarks {
		widths = append(widths, checkboxWidth+2)
		labels = append(labels, "")
		totalFixed += checkboxWidth + 2
	}
	for _, idx := range visible {
		h := hs[idx]
		label := h.Label
		switch {
		case h.HasClass("asc"):
			label += " ↑"
		case h.HasClass("desc"):
			label += " ↓"
		}
		if idx == t.activeColumn {
			label = ActiveHeaderStyle.Render(label)
		}
		cellWidth := max(h.Width+2, lipgloss.Width(label)+2)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		labels = append(labels, label)
	}
	if extra := width - totalFixed - 2; extra > 0 && len(widths) > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(labels, widths, TableHeaderStyle)
	divider := BreadcrumbStyle.Render(strings.Repeat("─", max(0, min(width, sum(widths)))))

	visibleHeight := height - 3
	t.viewportHeight = visibleHeight
	nodes := t.nodes()
	t.clampCursor()
	if t.cursor >= t.offset+visibleHeight && visibleHeight > 0 {
		t.offset = t.cursor - visibleHeight + 1
	}

	var rows []string
	for i := t.offset; i < len(nodes) && i < t.offset+visibleHeight; i++ {
		node := nodes[i]
		row, _ := t.ctrl.Row(node.Key)

		style := NormalRowStyle
		switch {
		case i == t.cursor:
			style = SelectedRowStyle
		case row != nil && row.Marked:
			style = MarkedRowStyle
		}

		cells := make([]string, 0, len(widths))
		if showMarks {
			mark := "[ ]"
			if cb := node.Cells[len(node.Cells)-1]; cb.Control != nil && cb.Control.Checked {
				mark = "[x]"
			}
			cells = append(cells, mark)
		}
		for _, idx := range visible {
			if idx >= len(node.Cells) {
				cells = append(cells, "")
				continue
			}
			c := node.Cells[idx]
			if c.Editor() != nil {
				cells = append(cells, EditorStyle.Render(editor))
				continue
			}
			cells = append(cells, util.TruncateString(c.Text, hs[idx].Width))
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}
	if len(nodes) == 0 {
		rows = append(rows, EmptyStateStyle.Padding(1, 2).Render("No rows match the filter."))
	}

	total := len(t.ctrl.Rows())
	rowPos := ""
	if len(nodes) > 0 {
		rowPos = fmt.Sprintf("  ·  row %d/%d", t.cursor+1, len(nodes))
	}
	filterInfo := ""
	if t.ctrl.FilterState().Active {
		filterInfo = fmt.Sprintf("  ·  filtered: %d/%d", len(nodes), total)
	}
	marked := ""
	if n := t.ctrl.MarkedCount(); n > 0 {
		marked = fmt.Sprintf("  ·  %d marked", n)
	}
	meta := t.TableMeta()
	if meta != "" {
		meta = "  ·  " + meta
	}
	status := StatusBarStyle.Render(fmt.Sprintf("%s%s%s%s%s", util.Plural(total, "row", "rows"), rowPos, filterInfo, marked, meta))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		divider,
		strings.Join(rows, "\n"),
	)
	statusHeight := lipgloss.Height(status)
	contentHeight := lipgloss.Height(content)
	spacerHeight := max(0, height-contentHeight-statusHeight)
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		spacer,
		status,
	)
}

// MoveDown moves the cursor down.
func (t *TableView) MoveDown() {
	if t.cursor < len(t.nodes())-1 {
		t.cursor++
		vh := t.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if t.cursor >= t.offset+vh {
			t.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (t *TableView) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		if t.cursor < t.offset {
			t.offset--
		}
	}
}

// JumpToTop jumps to the first row.
func (t *TableView) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last row.
func (t *TableView) JumpToBottom() {
	n := len(t.nodes())
	if n > 0 {
		t.cursor = n - 1
		vh := t.viewportHeight
		if vh == 0 {
			vh = 10
		}
		if t.cursor >= vh {
			t.offset = t.cursor - vh + 1
		}
	}
}

// HalfPageDown moves down half a page.
func (t *TableView) HalfPageDown(pageSize int) {
	n := len(t.nodes())
	if n == 0 {
		return
	}
	t.cursor += pageSize / 2
	if t.cursor >= n {
		t.cursor = n - 1
	}
	vh := t.viewportHeight
	if vh == 0 {
		vh = 10
	}
	if t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (t *TableView) HalfPageUp(pageSize int) {
	t.cursor -= pageSize / 2
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// gridID derives an element id from a tab name.
func gridID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "table"
	}
	return b.String()
}
