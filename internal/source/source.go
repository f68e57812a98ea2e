// Package source turns files, URLs and SQLite tables into record providers.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"smarttable/internal/model"
)

// ErrUnsupportedSource is returned for locations no provider understands.
var ErrUnsupportedSource = errors.New("unsupported source")

// Kind identifies a provider implementation.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindJSON   Kind = "json"
	KindYAML   Kind = "yaml"
	KindHTTP   Kind = "http"
	KindSQLite Kind = "sqlite"
)

// Spec describes where a table's records come from.
type Spec struct {
	// Name labels the table; derived from Location when empty.
	Name     string `yaml:"name" toml:"name"`
	Location string `yaml:"location" toml:"location"`
	// Kind overrides detection by extension or scheme.
	Kind Kind `yaml:"kind" toml:"kind"`
	// Table selects the SQLite table. A "path.db#table" location works too.
	Table string `yaml:"table" toml:"table"`
}

// Parse builds a spec from a command-line argument.
func Parse(arg string) Spec {
	s := Spec{Location: arg}
	if !isURL(arg) {
		if path, table, ok := strings.Cut(arg, "#"); ok {
			s.Location = path
			s.Table = table
		}
	}
	return s
}

// Detect returns the provider kind for s.
func (s Spec) Detect() (Kind, error) {
	if s.Kind != "" {
		return s.Kind, nil
	}
	if isURL(s.Location) {
		return KindHTTP, nil
	}
	switch strings.ToLower(filepath.Ext(s.Location)) {
	case ".csv":
		return KindCSV, nil
	case ".json":
		return KindJSON, nil
	case ".yaml", ".yml":
		return KindYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, s.Location)
}

// DisplayName returns the table label.
func (s Spec) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Table != "" {
		return s.Table
	}
	if isURL(s.Location) {
		trimmed := strings.TrimRight(s.Location, "/")
		if i := strings.LastIndexByte(trimmed, '/'); i >= 0 && i < len(trimmed)-1 {
			trimmed = trimmed[i+1:]
		}
		return strings.TrimSuffix(trimmed, filepath.Ext(trimmed))
	}
	base := filepath.Base(s.Location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Options tune network-backed providers.
type Options struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Open returns the provider for s.
func Open(s Spec, opts Options) (model.Provider, error) {
	kind, err := s.Detect()
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindCSV:
		return fileProvider(s.Location, ReadCSV), nil
	case KindJSON:
		return fileProvider(s.Location, ReadJSON), nil
	case KindYAML:
		return fileProvider(s.Location, ReadYAML), nil
	case KindHTTP:
		client := NewHTTPClient(opts.Timeout)
		if opts.HTTPClient != nil {
			client.httpClient = opts.HTTPClient
		}
		return client.Provider(s.Location), nil
	case KindSQLite:
		if s.Table == "" {
			return nil, fmt.Errorf("sqlite source %s: table name required", s.Location)
		}
		return SQLite(s.Location, s.Table), nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedSource, kind)
	}
}

func fileProvider(path string, read func(io.Reader) ([]model.Record, error)) model.Provider {
	return func(ctx context.Context) ([]model.Record, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		recs, err := read(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return recs, nil
	}
}

// alignFields puts every record's fields in the order of the first record.
// Missing fields become nil; fields the first record lacks are dropped.
func alignFields(recs []model.Record) []model.Record {
	if len(recs) < 2 {
		return recs
	}
	names := recs[0].Names()
	for i, rec := range recs[1:] {
		values := make(map[string]any, len(rec))
		for _, f := range rec {
			values[f.Name] = f.Value
		}
		aligned := make(model.Record, len(names))
		for j, name := range names {
			aligned[j] = model.Field{Name: name, Value: values[name]}
		}
		recs[i+1] = aligned
	}
	return recs
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
