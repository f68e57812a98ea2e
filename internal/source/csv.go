package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"smarttable/internal/model"
)

// ReadCSV reads a CSV document whose first line names the columns.
// Values stay strings; the controller decides what is numeric.
func ReadCSV(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var recs []model.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		rec := make(model.Record, len(header))
		for i, name := range header {
			var v string
			if i < len(row) {
				v = row[i]
			}
			rec[i] = model.Field{Name: name, Value: v}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
