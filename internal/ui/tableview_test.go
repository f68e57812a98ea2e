package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttable/internal/table"
)

func TestGridID(t *testing.T) {
	assert.Equal(t, "people", gridID("People"))
	assert.Equal(t, "my-data-v2", gridID("my data.v2"))
	assert.Equal(t, "table", gridID(""))
}

func TestLoadHonorsTableSelector(t *testing.T) {
	cfg := table.DefaultConfig()
	cfg.TableSelector = "#crew.sortable"

	tv := NewTableView("people", cfg)
	require.NoError(t, tv.Load(context.Background(), people(), nil))
	require.True(t, tv.Ready())

	g := tv.Controller().Grid()
	assert.Equal(t, "crew", g.ID)
	assert.Equal(t, "table", g.Tag)
	assert.True(t, g.HasClass("sortable"))
}

func TestViewBeforeLoad(t *testing.T) {
	tv := NewTableView("people", table.DefaultConfig())
	assert.Contains(t, tv.View(80, 10, ""), "Loading people")
	assert.False(t, tv.Ready())
	assert.False(t, tv.CanFilter())
	assert.False(t, tv.ClearFilter())
	_, ok := tv.SelectedValue()
	assert.False(t, ok)
}

func TestStartAfterThreshold(t *testing.T) {
	cfg := table.DefaultConfig()
	cfg.Filter.StartAfter = 2

	tv := NewTableView("people", cfg)
	require.NoError(t, tv.Load(context.Background(), people(), nil))

	require.True(t, tv.SetFilter("x"))
	assert.False(t, tv.Controller().FilterState().Active)
	assert.Len(t, tv.Controller().Displayed(), 4)

	require.True(t, tv.SetFilter("xy"))
	assert.Equal(t, []string{"Xy"}, lastNames(tv))
}

func TestCursorClampsAfterFilter(t *testing.T) {
	tv := NewTableView("people", table.DefaultConfig())
	require.NoError(t, tv.Load(context.Background(), people(), nil))

	tv.JumpToBottom()
	assert.Equal(t, 3, tv.cursor)
	tv.SetFilter("z")
	assert.Equal(t, 0, tv.cursor)
}
