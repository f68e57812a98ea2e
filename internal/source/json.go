package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"smarttable/internal/model"
)

// ReadJSON reads an array of flat JSON objects. Object key order is kept,
// which a map-based decode would lose. Numbers are kept as json.Number.
// A top-level object with a "records" array is accepted as well.
func ReadJSON(r io.Reader) ([]model.Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}

	switch tok {
	case json.Delim('['):
		return readJSONArray(dec)
	case json.Delim('{'):
		for dec.More() {
			key, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("failed to read json key: %w", err)
			}
			if key == "records" {
				open, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("failed to read records: %w", err)
				}
				if open != json.Delim('[') {
					return nil, fmt.Errorf("records must be an array")
				}
				return readJSONArray(dec)
			}
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("failed to skip %v: %w", key, err)
			}
		}
		return nil, fmt.Errorf("json object has no records array")
	default:
		return nil, fmt.Errorf("expected a json array, got %v", tok)
	}
}

// readJSONArray reads objects until the closing bracket of the array whose
// opening bracket was already consumed.
func readJSONArray(dec *json.Decoder) ([]model.Record, error) {
	var recs []model.Record
	for i := 0; dec.More(); i++ {
		rec, err := readJSONObject(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to close json array: %w", err)
	}
	return alignFields(recs), nil
}

func readJSONObject(dec *json.Decoder) (model.Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	var rec model.Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		value, err := scalar(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		rec = append(rec, model.Field{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// scalar decodes a primitive value. Nested arrays and objects are kept as
// their compact JSON text.
func scalar(raw json.RawMessage) (any, error) {
	switch {
	case len(raw) == 0:
		return nil, nil
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, err
		}
		return buf.String(), nil
	}

	var v any
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
