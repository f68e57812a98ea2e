package table

import (
	"unicode/utf8"

	"smarttable/internal/grid"
	"smarttable/internal/model"
)

// editSession binds the shared editor to one cell until blur or cancel.
type editSession struct {
	row      *model.Row
	column   int
	cell     *grid.Cell
	original string
}

// EditCell opens an edit session on cell. A session already open on another
// cell is committed first, so the editor is never hosted by two cells.
func (c *Controller) EditCell(cell *grid.Cell) bool {
	if c.state != Ready || cell == nil || c.isCheckbox(cell) {
		return false
	}
	row := c.byID[cell.RowKey]
	if row == nil {
		return false
	}
	if c.session != nil {
		if c.session.cell == cell {
			return true
		}
		c.CommitEdit()
	}

	in := c.editor
	in.Value = cell.Text
	in.Width = cell.Width
	c.session = &editSession{
		row:      row,
		column:   cell.Column,
		cell:     cell,
		original: cell.Text,
	}

	cell.Text = ""
	cell.AppendEditor(in)
	in.Focus()
	in.SetSelectionRange(0, utf8.RuneCountInString(in.Value))
	return true
}

// CommitEdit closes the open session, writing the editor value to the cell
// and its row. It is a no-op without an open session.
func (c *Controller) CommitEdit() {
	s := c.session
	if s == nil {
		return
	}
	c.closeSession(c.editor.Value)
	c.log.Debug("cell edited", "row", s.row.ID, "column", s.column, "from", s.original, "to", s.row.Cell(s.column))
}

// CancelEdit closes the open session and restores the original text.
func (c *Controller) CancelEdit() {
	if c.session == nil {
		return
	}
	c.closeSession(c.session.original)
}

func (c *Controller) closeSession(value string) {
	s := c.session
	c.session = nil

	s.cell.RemoveEditor()
	s.cell.Text = value
	if s.column >= 0 && s.column < len(s.row.Cells) {
		s.row.Cells[s.column] = value
	}
}

// Editor returns the shared edit input.
func (c *Controller) Editor() *grid.TextInput {
	return c.editor
}

// Editing reports the row id and column of the open session.
func (c *Controller) Editing() (rowID, column int, ok bool) {
	if c.session == nil {
		return 0, 0, false
	}
	return c.session.row.ID, c.session.column, true
}
