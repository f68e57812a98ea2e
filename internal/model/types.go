package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Display renders the field value as cell text.
func (f Field) Display() string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Record is an ordered mapping from column name to a display value.
type Record []Field

// Names returns the field names in insertion order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Provider supplies the initial records of a table.
type Provider func(ctx context.Context) ([]Record, error)

// Row is one materialized record: display cells plus the deletion mark.
type Row struct {
	ID     int
	Cells  []string
	Marked bool
}

// NewRow converts a record into a row, keeping field order.
func NewRow(id int, rec Record) *Row {
	cells := make([]string, len(rec))
	for i, f := range rec {
		cells[i] = f.Display()
	}
	return &Row{ID: id, Cells: cells}
}

// Cell returns the display text at column, or "" when out of range.
func (r *Row) Cell(column int) string {
	if column < 0 || column >= len(r.Cells) {
		return ""
	}
	return r.Cells[column]
}

// SortDirection is 1 for ascending and -1 for descending.
type SortDirection int

const (
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// FilterState reports whether the displayed rows are a filtered subset.
type FilterState struct {
	Active bool
	Column int
	Text   string
}
