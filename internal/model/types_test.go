package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldDisplay(t *testing.T) {
	cases := []struct {
		value any
		want  string
	}{
		{"text", "text"},
		{nil, ""},
		{42, "42"},
		{int64(-7), "-7"},
		{3.5, "3.5"},
		{float64(10), "10"},
		{json.Number("1.50"), "1.50"},
		{true, "true"},
		{[]byte("raw"), "raw"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Field{Value: tc.value}.Display(), "%#v", tc.value)
	}
}

func TestNewRowKeepsFieldOrder(t *testing.T) {
	rec := Record{
		{Name: "z", Value: "last"},
		{Name: "a", Value: 1},
		{Name: "m", Value: nil},
	}
	row := NewRow(3, rec)
	assert.Equal(t, 3, row.ID)
	assert.Equal(t, []string{"last", "1", ""}, row.Cells)
	assert.Equal(t, []string{"z", "a", "m"}, rec.Names())
	assert.False(t, row.Marked)
	assert.Equal(t, "", row.Cell(9))
	assert.Equal(t, "", row.Cell(-1))
}

func TestSortDirectionFlip(t *testing.T) {
	assert.Equal(t, SortDesc, SortAsc.Flip())
	assert.Equal(t, SortAsc, SortDesc.Flip())
	assert.Equal(t, "asc", SortAsc.String())
	assert.Equal(t, "desc", SortDesc.String())
}
