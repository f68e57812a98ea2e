package table

// Default selectors and attributes.
const (
	DefaultTableSelector       = "table"
	DefaultSortTrigger         = "data-sort-btn"
	DefaultDeleteInputSelector = "input[data-delete]"
	DefaultRowDeleteTrigger    = "[data-delete-btn]"
	DefaultFilterInputs        = "input[data-filter]"
)

// FilterConfig enables per-column filtering.
type FilterConfig struct {
	// InputsSelector locates the filter inputs inside the grid.
	InputsSelector string
	// StartAfter is the input length at which filtering kicks in.
	StartAfter int
}

// Config selects the grid and the optional subsystems of a controller.
// A nil Filter disables filtering; an empty RowDeleteTrigger, or one that
// matches no control, disables bulk delete; an empty SortTrigger disables
// sorting.
type Config struct {
	TableSelector       string
	SortTrigger         string
	DeleteInputSelector string
	RowDeleteTrigger    string
	Filter              *FilterConfig
}

// DefaultConfig returns a configuration with every subsystem enabled.
func DefaultConfig() Config {
	return Config{
		TableSelector:       DefaultTableSelector,
		SortTrigger:         DefaultSortTrigger,
		DeleteInputSelector: DefaultDeleteInputSelector,
		RowDeleteTrigger:    DefaultRowDeleteTrigger,
		Filter: &FilterConfig{
			InputsSelector: DefaultFilterInputs,
			StartAfter:     1,
		},
	}
}

func (c Config) withDefaults() Config {
	if c.TableSelector == "" {
		c.TableSelector = DefaultTableSelector
	}
	if c.DeleteInputSelector == "" {
		c.DeleteInputSelector = DefaultDeleteInputSelector
	}
	if c.Filter != nil {
		f := *c.Filter
		if f.InputsSelector == "" {
			f.InputsSelector = DefaultFilterInputs
		}
		if f.StartAfter < 0 {
			f.StartAfter = 0
		}
		c.Filter = &f
	}
	return c
}
