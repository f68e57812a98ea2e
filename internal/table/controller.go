// Package table implements the controller that adds sorting, filtering,
// inline editing and bulk row deletion to a grid.
package table

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"smarttable/internal/grid"
	"smarttable/internal/model"
	"smarttable/internal/util"
)

const (
	directionAttr = "data-direction"
	classAsc      = "asc"
	classDesc     = "desc"
	editorClass   = "cell-value"
)

// State is the lifecycle state of a controller.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Controller owns one grid's rows, sort state, filter state and edit input.
// It is not safe for concurrent use; every method is expected to run on the
// goroutine that dispatches events.
type Controller struct {
	cfg      Config
	doc      *grid.Document
	provider model.Provider
	log      *slog.Logger

	state State
	grid  *grid.Grid

	// rows is the authoritative RowSet in ingest order minus deletions.
	rows      []*model.Row
	displayed []*model.Row
	byID      map[int]*model.Row

	filter       model.FilterState
	filterInputs []*grid.Control

	editor  *grid.TextInput
	session *editSession
}

// New creates an uninitialized controller. A nil logger uses slog.Default.
func New(doc *grid.Document, cfg Config, provider model.Provider, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:      cfg.withDefaults(),
		doc:      doc,
		provider: provider,
		log:      logger,
		byID:     make(map[int]*model.Row),
	}
}

// Init resolves the grid, loads the records and binds event handlers.
//
// A missing grid leaves the controller inert and is not an error. An empty
// record set is logged and aborts initialization. Only provider failures are
// returned.
func (c *Controller) Init(ctx context.Context) error {
	if c.state == Ready {
		return nil
	}

	c.grid = c.doc.Query(c.cfg.TableSelector)
	if c.grid == nil {
		c.log.Debug("grid not found, controller inert", "selector", c.cfg.TableSelector)
		return nil
	}

	var records []model.Record
	if c.provider != nil {
		var err error
		records, err = c.provider(ctx)
		if err != nil {
			return fmt.Errorf("failed to load records for %s: %w", c.cfg.TableSelector, err)
		}
	}
	if len(records) == 0 {
		c.log.Warn("no data to fill the table", "selector", c.cfg.TableSelector)
		return nil
	}

	c.ingest(records)
	c.ensureHeaders(records[0])
	c.editor = grid.NewTextInput(editorClass)
	c.bindEvents()
	c.render()
	c.state = Ready

	c.log.Info("table ready", "selector", c.cfg.TableSelector, "rows", len(c.rows))
	return nil
}

func (c *Controller) ingest(records []model.Record) {
	c.rows = make([]*model.Row, 0, len(records))
	for i, rec := range records {
		row := model.NewRow(i+1, rec)
		c.rows = append(c.rows, row)
		c.byID[row.ID] = row
	}
	c.displayed = append([]*model.Row(nil), c.rows...)
}

// ensureHeaders creates sortable headers from the first record when the grid
// has none.
func (c *Controller) ensureHeaders(first model.Record) {
	if len(c.grid.Headers) > 0 {
		return
	}
	for _, name := range first.Names() {
		h := c.grid.AddHeader(name)
		if c.cfg.SortTrigger != "" {
			h.SetAttr(c.cfg.SortTrigger, "")
		}
	}
}

func (c *Controller) bindEvents() {
	c.grid.On(grid.Click, func(ev *grid.Event) {
		if ev.Header != nil && c.cfg.SortTrigger != "" && ev.Header.HasAttr(c.cfg.SortTrigger) {
			c.SortHeader(ev.Header)
		}
	})

	c.grid.On(grid.DblClick, func(ev *grid.Event) {
		if ev.Cell != nil && !c.isCheckbox(ev.Cell) {
			c.EditCell(ev.Cell)
		}
	})

	c.grid.On(grid.Change, func(ev *grid.Event) {
		if ev.Cell != nil && c.isCheckbox(ev.Cell) {
			c.ToggleMark(ev.Cell)
		}
	})

	if c.cfg.Filter != nil {
		c.filterInputs = c.grid.QueryControls(c.cfg.Filter.InputsSelector)
		for i, in := range c.filterInputs {
			column := in.Column
			if column < 0 {
				column = i
			}
			in.On(grid.Input, func(ev *grid.Event) {
				c.Filter(column, ev.Control.Value)
			})
		}
	}

	if c.cfg.RowDeleteTrigger != "" {
		if btn := c.grid.QueryControl(c.cfg.RowDeleteTrigger); btn != nil {
			btn.On(grid.Click, func(ev *grid.Event) {
				ev.PreventDefault()
				c.DeleteMarked()
			})
		}
	}

	c.editor.On(grid.Blur, func(*grid.Event) { c.CommitEdit() })
	c.editor.On(grid.Cancel, func(*grid.Event) { c.CancelEdit() })
}

// SortHeader flips the direction stored on h and sorts by its column.
func (c *Controller) SortHeader(h *grid.Header) model.SortDirection {
	dir := model.SortAsc
	if v := h.Attr(directionAttr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n != 0 {
			dir = model.SortDirection(n).Flip()
		}
	}
	h.SetAttr(directionAttr, strconv.Itoa(int(dir)))
	if dir == model.SortAsc {
		h.AddClass(classAsc)
		h.RemoveClass(classDesc)
	} else {
		h.AddClass(classDesc)
		h.RemoveClass(classAsc)
	}

	c.Sort(h.Index, dir)
	return dir
}

// Sort orders the displayed rows by column. While a filter is active only
// the visible subset is reordered; otherwise every row is.
func (c *Controller) Sort(column int, dir model.SortDirection) {
	if c.state != Ready {
		return
	}
	c.CommitEdit()

	sort.SliceStable(c.displayed, func(i, j int) bool {
		cmp := util.CompareValues(c.displayed[i].Cell(column), c.displayed[j].Cell(column))
		return cmp*int(dir) < 0
	})
	c.render()
}

// Filter shows the rows whose cell at column contains text, ignoring case.
// Text is matched literally. Empty text resets the table; text shorter than
// the configured threshold is ignored.
func (c *Controller) Filter(column int, text string) {
	if c.state != Ready {
		return
	}

	n := utf8.RuneCountInString(text)
	if n == 0 {
		c.Reset()
		return
	}
	if c.cfg.Filter != nil && n < c.cfg.Filter.StartAfter {
		return
	}
	c.CommitEdit()

	needle := strings.ToLower(text)
	matched := make([]*model.Row, 0, len(c.rows))
	for _, r := range c.rows {
		if strings.Contains(strings.ToLower(r.Cell(column)), needle) {
			matched = append(matched, r)
		}
	}

	c.displayed = matched
	c.filter = model.FilterState{Active: true, Column: column, Text: text}
	c.render()
}

// Reset shows every row in RowSet order and clears all filter inputs.
func (c *Controller) Reset() {
	if c.state != Ready {
		return
	}
	c.CommitEdit()

	c.displayed = append([]*model.Row(nil), c.rows...)
	c.filter = model.FilterState{}
	for _, in := range c.filterInputs {
		in.Value = ""
	}
	c.render()
}

// ToggleMark copies the checkbox state of cell into its row.
func (c *Controller) ToggleMark(cell *grid.Cell) {
	row := c.byID[cell.RowKey]
	if row == nil || cell.Control == nil {
		return
	}
	row.Marked = cell.Control.Checked
}

// Mark sets the deletion mark of the row with id and updates its checkbox.
func (c *Controller) Mark(id int, marked bool) bool {
	row := c.byID[id]
	if row == nil {
		return false
	}
	row.Marked = marked
	if body := c.grid.Body(); body != nil {
		for _, node := range body.Rows {
			if node.Key != id {
				continue
			}
			if cb := node.Cells[len(node.Cells)-1]; cb.Control != nil {
				cb.Control.Checked = marked
			}
		}
	}
	return true
}

// DeleteMarked removes every marked row from RowSet and from the display and
// returns how many were removed.
func (c *Controller) DeleteMarked() int {
	if c.state != Ready {
		return 0
	}
	c.CommitEdit()

	keep := c.rows[:0]
	removed := 0
	for _, r := range c.rows {
		if r.Marked {
			delete(c.byID, r.ID)
			removed++
			continue
		}
		keep = append(keep, r)
	}
	c.rows = keep

	shown := c.displayed[:0]
	for _, r := range c.displayed {
		if !r.Marked {
			shown = append(shown, r)
		}
	}
	c.displayed = shown

	if removed > 0 {
		c.log.Info("rows deleted", "selector", c.cfg.TableSelector, "count", removed, "remaining", len(c.rows))
	}
	c.render()
	return removed
}

// render projects the displayed rows into a new body and swaps it in.
func (c *Controller) render() {
	body := &grid.Body{Rows: make([]*grid.RowNode, 0, len(c.displayed))}
	for _, r := range c.displayed {
		body.Rows = append(body.Rows, c.project(r))
	}
	c.grid.DetachBody()
	c.grid.AttachBody(body)
}

func (c *Controller) project(r *model.Row) *grid.RowNode {
	node := &grid.RowNode{Key: r.ID, Cells: make([]*grid.Cell, 0, len(r.Cells)+1)}
	for i, text := range r.Cells {
		node.Cells = append(node.Cells, &grid.Cell{
			RowKey: r.ID,
			Column: i,
			Text:   text,
			Width:  c.columnWidth(i),
		})
	}

	cb := grid.NewControl(c.cfg.DeleteInputSelector)
	cb.SetAttr("type", "checkbox")
	cb.Checked = r.Marked
	cb.Column = len(r.Cells)
	node.Cells = append(node.Cells, &grid.Cell{
		RowKey:  r.ID,
		Column:  len(r.Cells),
		Width:   c.columnWidth(len(r.Cells)),
		Control: cb,
	})
	return node
}

func (c *Controller) columnWidth(i int) int {
	if i < len(c.grid.Headers) {
		return c.grid.Headers[i].Width
	}
	return 0
}

func (c *Controller) isCheckbox(cell *grid.Cell) bool {
	return cell.Control != nil && cell.Control.Matches(c.cfg.DeleteInputSelector)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Ready reports whether Init completed.
func (c *Controller) Ready() bool {
	return c.state == Ready
}

// Grid returns the controlled grid, or nil when none was found.
func (c *Controller) Grid() *grid.Grid {
	return c.grid
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Rows returns the RowSet in its authoritative order.
func (c *Controller) Rows() []*model.Row {
	return append([]*model.Row(nil), c.rows...)
}

// Displayed returns the rows currently shown, in display order.
func (c *Controller) Displayed() []*model.Row {
	return append([]*model.Row(nil), c.displayed...)
}

// Row returns the row with id.
func (c *Controller) Row(id int) (*model.Row, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// FilterState returns the active filter, if any.
func (c *Controller) FilterState() model.FilterState {
	return c.filter
}

// Columns returns the header labels.
func (c *Controller) Columns() []string {
	if c.grid == nil {
		return nil
	}
	labels := make([]string, len(c.grid.Headers))
	for i, h := range c.grid.Headers {
		labels[i] = h.Label
	}
	return labels
}

// MarkedCount returns how many rows are marked for deletion.
func (c *Controller) MarkedCount() int {
	n := 0
	for _, r := range c.rows {
		if r.Marked {
			n++
		}
	}
	return n
}
