package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttable/internal/source"
	"smarttable/internal/table"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SMARTTABLE_CONFIG", "")
	t.Setenv("SMARTTABLE_LOG_FILE", "")
	return home
}

func TestParseFlagsPositionalSources(t *testing.T) {
	isolate(t)

	cfg, err := parseFlags("test", []string{"people.csv", "data.db", "--table", "pets", "--timeout", "3s"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "people.csv", cfg.Sources[0].Location)
	assert.Equal(t, "pets", cfg.Sources[0].Table)
	assert.Equal(t, "pets", cfg.Sources[1].Table)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, table.DefaultConfig(), cfg.Table)
}

func TestParseFlagsDisableSubsystems(t *testing.T) {
	isolate(t)

	cfg, err := parseFlags("test", []string{"--no-filter", "--no-delete", "--no-sort", "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Nil(t, cfg.Table.Filter)
	assert.Empty(t, cfg.Table.RowDeleteTrigger)
	assert.Empty(t, cfg.Table.SortTrigger)
	assert.Equal(t, table.DefaultTableSelector, cfg.Table.TableSelector)
}

func TestParseFlagsStartAfter(t *testing.T) {
	isolate(t)

	cfg, err := parseFlags("test", []string{"--start-after", "3", "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, cfg.Table.Filter)
	assert.Equal(t, 3, cfg.Table.Filter.StartAfter)

	_, err = parseFlags("test", []string{"--start-after", "-2", "a.csv"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseFlagsRequiresSources(t *testing.T) {
	isolate(t)

	_, err := parseFlags("test", nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sources")
}

func TestParseFlagsVersion(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	cfg, err := parseFlags("1.2.3", []string{"--version"}, &out)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "1.2.3")
}

func TestParseFlagsConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".smarttable")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	body := `
sources:
  - name: crew
    location: crew.json
log_file: /tmp/smarttable.log
timeout: 5s
table:
  row_delete_trigger: ""
  filter:
    start_after: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))

	cfg, err := parseFlags("test", []string{"extra.csv", "--log-file", "override.log"}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, source.Spec{Name: "crew", Location: "crew.json"}, cfg.Sources[0])
	assert.Equal(t, "extra.csv", cfg.Sources[1].Location)
	assert.Equal(t, "override.log", cfg.LogFile)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Table.RowDeleteTrigger)
	require.NotNil(t, cfg.Table.Filter)
	assert.Equal(t, 2, cfg.Table.Filter.StartAfter)
}

func TestParseFlagsSelector(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("table:\n  table_selector: \"#crew\"\n"), 0o644))

	cfg, err := parseFlags("test", []string{"--config", path, "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "#crew", cfg.Table.TableSelector)

	cfg, err = parseFlags("test", []string{"--config", path, "--selector", "table.people", "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "table.people", cfg.Table.TableSelector)
}

func TestParseFlagsLogFilePrecedence(t *testing.T) {
	home := isolate(t)
	t.Setenv("SMARTTABLE_LOG_FILE", "env.log")

	cfg, err := parseFlags("test", []string{"a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "env.log", cfg.LogFile)

	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_file: file.log\n"), 0o644))
	cfg, err = parseFlags("test", []string{"--config", path, "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "file.log", cfg.LogFile)

	cfg, err = parseFlags("test", []string{"--config", path, "--log-file", "flag.log", "a.csv"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "flag.log", cfg.LogFile)
}

func TestParseFlagsExplicitConfigMustExist(t *testing.T) {
	home := isolate(t)

	_, err := parseFlags("test", []string{"--config", filepath.Join(home, "missing.yaml"), "a.csv"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
log_file = "run.log"

[[sources]]
location = "data.db"
table = "people"

[table]
sort_trigger = "data-sortable"

[table.filter]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	fc, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "run.log", fc.LogFile)
	require.Len(t, fc.Sources, 1)
	assert.Equal(t, "people", fc.Sources[0].Table)

	cfg := fc.Table.Apply(table.DefaultConfig())
	assert.Equal(t, "data-sortable", cfg.SortTrigger)
	assert.Nil(t, cfg.Filter)
	assert.Equal(t, table.DefaultRowDeleteTrigger, cfg.RowDeleteTrigger)
}

func TestLoadConfigFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))

	_, err := LoadConfigFile(path)
	assert.Error(t, err)
}

func TestTableSectionApplyLeavesDefaults(t *testing.T) {
	cfg := TableSection{}.Apply(table.DefaultConfig())
	assert.Equal(t, table.DefaultConfig(), cfg)

	cfg = TableSection{Filter: &FilterSection{InputsSelector: "input.search"}}.Apply(table.Config{})
	require.NotNil(t, cfg.Filter)
	assert.Equal(t, "input.search", cfg.Filter.InputsSelector)
	assert.Equal(t, 1, cfg.Filter.StartAfter)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "# comment\nexport SMARTTABLE_TEST_A=\"quoted\"\nSMARTTABLE_TEST_B = plain\nSMARTTABLE_TEST_C=keep\nbroken line\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("SMARTTABLE_TEST_A", "")
	t.Setenv("SMARTTABLE_TEST_B", "")
	t.Setenv("SMARTTABLE_TEST_C", "existing")

	loadDotEnv(path)
	assert.Equal(t, "quoted", os.Getenv("SMARTTABLE_TEST_A"))
	assert.Equal(t, "plain", os.Getenv("SMARTTABLE_TEST_B"))
	assert.Equal(t, "existing", os.Getenv("SMARTTABLE_TEST_C"))
}
