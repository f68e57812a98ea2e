package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttable/internal/db"
	"smarttable/internal/model"
)

func texts(rec model.Record) []string {
	out := make([]string, len(rec))
	for i, f := range rec {
		out[i] = f.Display()
	}
	return out
}

func TestReadCSV(t *testing.T) {
	in := "\ufefflast, first,age\nX,A,10\nY,B\n\"Z, Jr\",C,1\n"
	recs, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"last", "first", "age"}, recs[0].Names())
	assert.Equal(t, []string{"X", "A", "10"}, texts(recs[0]))
	assert.Equal(t, []string{"Y", "B", ""}, texts(recs[1]))
	assert.Equal(t, []string{"Z, Jr", "C", "1"}, texts(recs[2]))
}

func TestReadCSVEmpty(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadJSONKeepsKeyOrder(t *testing.T) {
	in := `[
		{"zeta": "z", "alpha": 1.50, "mid": null, "flag": true},
		{"zeta": "y", "alpha": 2, "mid": {"a": 1, "b": [1, 2]}}
	]`
	recs, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"zeta", "alpha", "mid", "flag"}, recs[0].Names())
	assert.Equal(t, []string{"z", "1.50", "", "true"}, texts(recs[0]))
	assert.Equal(t, json.Number("2"), recs[1][1].Value)
	assert.Equal(t, `{"a":1,"b":[1,2]}`, recs[1][2].Display())
}

func TestReadJSONAlignsFieldsToFirstRecord(t *testing.T) {
	recs, err := ReadJSON(strings.NewReader(`[{"a":1,"b":2},{"b":3,"a":4},{"b":5,"c":6}]`))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for _, rec := range recs {
		assert.Equal(t, []string{"a", "b"}, rec.Names())
	}
	assert.Equal(t, []string{"4", "3"}, texts(recs[1]))
	assert.Equal(t, []string{"", "5"}, texts(recs[2]))
	assert.Nil(t, recs[2][0].Value)
}

func TestReadJSONRecordsEnvelope(t *testing.T) {
	in := `{"total": 2, "meta": {"x": 1}, "records": [{"a": "1"}, {"a": "2"}]}`
	recs, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2", recs[1][0].Display())

	_, err = ReadJSON(strings.NewReader(`{"rows": []}`))
	assert.Error(t, err)
	_, err = ReadJSON(strings.NewReader(`"nope"`))
	assert.Error(t, err)
	_, err = ReadJSON(strings.NewReader(`[1, 2]`))
	assert.Error(t, err)
}

func TestReadYAML(t *testing.T) {
	in := `
- last: X
  first: A
  age: 10
  score: 1.5
  note: ~
- last: Y
  first: "007"
  age: 2
`
	recs, err := ReadYAML(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, []string{"last", "first", "age", "score", "note"}, recs[0].Names())
	assert.Equal(t, int64(10), recs[0][2].Value)
	assert.Equal(t, 1.5, recs[0][3].Value)
	assert.Nil(t, recs[0][4].Value)
	assert.Equal(t, "007", recs[1][1].Value)
	assert.Equal(t, []string{"last", "first", "age", "score", "note"}, recs[1].Names())
	assert.Nil(t, recs[1][3].Value)
}

func TestReadYAMLAlignsFieldsToFirstRecord(t *testing.T) {
	in := `
- name: a
  size: 1
- size: 2
  name: b
- size: 3
`
	recs, err := ReadYAML(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"b", "2"}, texts(recs[1]))
	assert.Equal(t, []string{"name", "size"}, recs[2].Names())
	assert.Equal(t, []string{"", "3"}, texts(recs[2]))
}

func TestReadYAMLRecordsKey(t *testing.T) {
	recs, err := ReadYAML(strings.NewReader("records:\n  - a: 1\n"))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	_, err = ReadYAML(strings.NewReader("a: 1\n"))
	assert.Error(t, err)
	_, err = ReadYAML(strings.NewReader("- 1\n- 2\n"))
	assert.Error(t, err)
}

func TestParseAndDetect(t *testing.T) {
	cases := []struct {
		arg   string
		kind  Kind
		table string
		name  string
	}{
		{"people.csv", KindCSV, "", "people"},
		{"dir/pets.JSON", KindJSON, "", "pets"},
		{"cfg/list.yml", KindYAML, "", "list"},
		{"data.db#people", KindSQLite, "people", "people"},
		{"https://example.com/api/users.json", KindHTTP, "", "users"},
		{"http://example.com/rows#frag", KindHTTP, "", "rows#frag"},
	}
	for _, tc := range cases {
		s := Parse(tc.arg)
		kind, err := s.Detect()
		require.NoError(t, err, tc.arg)
		assert.Equal(t, tc.kind, kind, tc.arg)
		assert.Equal(t, tc.table, s.Table, tc.arg)
		assert.Equal(t, tc.name, s.DisplayName(), tc.arg)
	}

	_, err := Parse("notes.txt").Detect()
	assert.ErrorIs(t, err, ErrUnsupportedSource)
	_, err = Open(Parse("notes.txt"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedSource)

	named := Spec{Name: "custom", Location: "x.csv"}
	assert.Equal(t, "custom", named.DisplayName())
	forced := Spec{Location: "x.txt", Kind: KindCSV}
	kind, err := forced.Detect()
	require.NoError(t, err)
	assert.Equal(t, KindCSV, kind)
}

func TestOpenFileProviders(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.csv":  "n\n1\n2\n",
		"a.json": `[{"n": 1}, {"n": 2}]`,
		"a.yaml": "- n: 1\n- n: 2\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		provider, err := Open(Parse(path), Options{})
		require.NoError(t, err, name)
		recs, err := provider(context.Background())
		require.NoError(t, err, name)
		require.Len(t, recs, 2, name)
		assert.Equal(t, "2", recs[1][0].Display(), name)
	}

	provider, err := Open(Parse(filepath.Join(dir, "missing.csv")), Options{})
	require.NoError(t, err)
	_, err = provider(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider, err = Open(Parse(filepath.Join(dir, "a.csv")), Options{})
	require.NoError(t, err)
	_, err = provider(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	database, err := db.Open(path)
	require.NoError(t, err)
	_, err = database.Exec(`CREATE TABLE people (last TEXT, age INTEGER); INSERT INTO people VALUES ('X', 10), ('Y', 2);`)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	provider, err := Open(Parse(path+"#people"), Options{})
	require.NoError(t, err)
	recs, err := provider(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Y", "2"}, texts(recs[1]))

	_, err = Open(Parse(path), Options{})
	assert.Error(t, err)
}

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		if r.URL.Path == "/broken" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"b": "x", "a": 3}, {"b": "y", "a": 1}]`))
	}))
	defer srv.Close()

	provider, err := Open(Parse(srv.URL+"/rows"), Options{HTTPClient: srv.Client()})
	require.NoError(t, err)
	recs, err := provider(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"b", "a"}, recs[0].Names())

	_, err = NewHTTPClient(0).Fetch(context.Background(), srv.URL+"/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
