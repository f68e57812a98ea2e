package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttable/internal/grid"
)

func (f *fixture) dblclick(row, col int) *grid.Cell {
	cell := f.cell(row, col)
	f.grid.Dispatch(&grid.Event{Type: grid.DblClick, Cell: cell})
	return cell
}

func TestEditCommitOnBlur(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())
	f.grid.SetColumnWidth(colFirst, 14)

	cell := f.dblclick(1, colFirst)
	require.Equal(t, "", cell.Text)

	in := f.ctrl.Editor()
	require.NotNil(t, in)
	assert.Same(t, in, cell.Editor())
	assert.Same(t, cell, in.Host())
	assert.Equal(t, "B", in.Value)
	assert.Equal(t, 14, in.Width)
	assert.True(t, in.Focused)
	assert.Equal(t, 0, in.SelectionStart)
	assert.Equal(t, 1, in.SelectionEnd)
	assert.True(t, in.HasClass("cell-value"))

	rowID, col, ok := f.ctrl.Editing()
	require.True(t, ok)
	assert.Equal(t, colFirst, col)

	in.Value = "Bz"
	in.Dispatch(&grid.Event{Type: grid.Blur})

	assert.Equal(t, "Bz", cell.Text)
	assert.Nil(t, cell.Editor())
	assert.Nil(t, in.Host())
	_, _, ok = f.ctrl.Editing()
	assert.False(t, ok)

	row, found := f.ctrl.Row(rowID)
	require.True(t, found)
	assert.Equal(t, "Bz", row.Cell(colFirst))
}

func TestEditCommittedValueSurvivesRender(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())

	f.dblclick(0, colFirst)
	f.ctrl.Editor().Value = "Zed"
	f.ctrl.Editor().Dispatch(&grid.Event{Type: grid.Blur})

	f.typeFilter(colFirst, "zed")
	assert.Equal(t, []string{"Zed"}, f.column(colFirst))
}

func TestEditCancelRestoresText(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())

	cell := f.dblclick(2, colLast)
	in := f.ctrl.Editor()
	in.Value = "changed"
	in.Dispatch(&grid.Event{Type: grid.Cancel})

	assert.Equal(t, "Z", cell.Text)
	assert.Nil(t, cell.Editor())
	assert.Equal(t, "Z", f.ctrl.Rows()[2].Cell(colLast))
}

func TestEditIgnoresCheckboxCell(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())

	cell := f.dblclick(0, 3)
	assert.Nil(t, cell.Editor())
	_, _, ok := f.ctrl.Editing()
	assert.False(t, ok)
}

func TestEditSecondCellCommitsFirst(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())

	first := f.dblclick(0, colLast)
	f.ctrl.Editor().Value = "first"
	second := f.dblclick(1, colLast)

	assert.Equal(t, "first", first.Text)
	assert.Nil(t, first.Editor())
	assert.Same(t, second, f.ctrl.Editor().Host())
	assert.Equal(t, "Y", f.ctrl.Editor().Value)

	// editing the same cell again keeps the session
	assert.True(t, f.ctrl.EditCell(second))
	assert.Same(t, second, f.ctrl.Editor().Host())
}

func TestSortCommitsOpenEdit(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())

	f.dblclick(0, colLast)
	f.ctrl.Editor().Value = "AAA"
	f.clickHeader(colLast)

	_, _, ok := f.ctrl.Editing()
	assert.False(t, ok)
	assert.Nil(t, f.ctrl.Editor().Host())
	assert.Equal(t, "AAA", f.column(colLast)[0])
}

func TestBlurWithoutSessionIsNoop(t *testing.T) {
	f := newFixture(t, testConfig(), peopleRecords())
	f.ctrl.Editor().Value = "ignored"

	assert.NotPanics(t, func() {
		f.ctrl.Editor().Dispatch(&grid.Event{Type: grid.Blur})
		f.ctrl.CancelEdit()
	})
	assert.Equal(t, lastNames, f.column(colLast))
}
