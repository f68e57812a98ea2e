package grid

import "unicode/utf8"

// Control is a form element attached to a grid: a filter input, a checkbox
// or a button.
type Control struct {
	Element
	Target

	Value   string
	Checked bool
	// Column is the column a filter input applies to.
	Column int
}

// NewControl creates a control that satisfies selector.
func NewControl(selector string) *Control {
	return &Control{Element: ElementFor(selector), Column: -1}
}

// Dispatch delivers ev to the control listeners.
func (c *Control) Dispatch(ev *Event) {
	if ev.Control == nil {
		ev.Control = c
	}
	c.dispatch(ev)
}

// TextInput is the single-line editor hosted by at most one cell at a time.
type TextInput struct {
	Element
	Target

	Value          string
	Width          int
	Focused        bool
	SelectionStart int
	SelectionEnd   int

	host *Cell
}

// NewTextInput creates a detached text input with the given class.
func NewTextInput(class string) *TextInput {
	in := &TextInput{Element: Element{Tag: "input"}}
	in.SetAttr("type", "text")
	if class != "" {
		in.AddClass(class)
	}
	return in
}

// Host returns the cell hosting the input, or nil when detached.
func (in *TextInput) Host() *Cell {
	return in.host
}

// Focus focuses the input.
func (in *TextInput) Focus() {
	in.Focused = true
}

// SetSelectionRange selects the runes in [start, end).
func (in *TextInput) SetSelectionRange(start, end int) {
	n := utf8.RuneCountInString(in.Value)
	in.SelectionStart = clamp(start, 0, n)
	in.SelectionEnd = clamp(end, in.SelectionStart, n)
}

// Dispatch delivers ev to the input listeners.
func (in *TextInput) Dispatch(ev *Event) {
	if ev.Editor == nil {
		ev.Editor = in
	}
	if ev.Cell == nil {
		ev.Cell = in.host
	}
	in.dispatch(ev)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
