package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"smarttable/internal/source"
	"smarttable/internal/table"
)

// FileConfig is the on-disk configuration, YAML or TOML.
type FileConfig struct {
	Sources []source.Spec `yaml:"sources" toml:"sources"`
	Table   TableSection  `yaml:"table" toml:"table"`
	LogFile string        `yaml:"log_file" toml:"log_file"`
	Timeout string        `yaml:"timeout" toml:"timeout"`
}

// TableSection configures every table controller. Pointer fields
// distinguish "unset" from an explicit empty value.
type TableSection struct {
	TableSelector       string         `yaml:"table_selector" toml:"table_selector"`
	SortTrigger         *string        `yaml:"sort_trigger" toml:"sort_trigger"`
	DeleteInputSelector string         `yaml:"delete_input_selector" toml:"delete_input_selector"`
	RowDeleteTrigger    *string        `yaml:"row_delete_trigger" toml:"row_delete_trigger"`
	Filter              *FilterSection `yaml:"filter" toml:"filter"`
}

// FilterSection configures filtering.
type FilterSection struct {
	Enabled        *bool  `yaml:"enabled" toml:"enabled"`
	InputsSelector string `yaml:"inputs_selector" toml:"inputs_selector"`
	StartAfter     *int   `yaml:"start_after" toml:"start_after"`
}

// LoadConfigFile reads path, choosing the format by extension.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fc, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fc, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fc, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return fc, nil
}

// Apply overlays the section on cfg.
func (s TableSection) Apply(cfg table.Config) table.Config {
	if s.TableSelector != "" {
		cfg.TableSelector = s.TableSelector
	}
	if s.SortTrigger != nil {
		cfg.SortTrigger = *s.SortTrigger
	}
	if s.DeleteInputSelector != "" {
		cfg.DeleteInputSelector = s.DeleteInputSelector
	}
	if s.RowDeleteTrigger != nil {
		cfg.RowDeleteTrigger = *s.RowDeleteTrigger
	}
	if f := s.Filter; f != nil {
		if f.Enabled != nil && !*f.Enabled {
			cfg.Filter = nil
			return cfg
		}
		fc := table.FilterConfig{InputsSelector: table.DefaultFilterInputs, StartAfter: 1}
		if cfg.Filter != nil {
			fc = *cfg.Filter
		}
		if f.InputsSelector != "" {
			fc.InputsSelector = f.InputsSelector
		}
		if f.StartAfter != nil {
			fc.StartAfter = *f.StartAfter
		}
		cfg.Filter = &fc
	}
	return cfg
}
