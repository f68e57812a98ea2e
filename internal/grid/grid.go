// Package grid is the in-memory presentation surface that table controllers
// render into and that the terminal UI reads from and dispatches events to.
package grid

// Document holds every grid known to the environment.
type Document struct {
	grids []*Grid
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Add registers a grid.
func (d *Document) Add(g *Grid) {
	d.grids = append(d.grids, g)
}

// Query returns the first grid matching selector, or nil.
func (d *Document) Query(selector string) *Grid {
	for _, g := range d.grids {
		if g.Matches(selector) {
			return g
		}
	}
	return nil
}

// Grids returns the registered grids in insertion order.
func (d *Document) Grids() []*Grid {
	return append([]*Grid(nil), d.grids...)
}

// ListenerCount totals the listeners attached to grids and their controls.
func (d *Document) ListenerCount() int {
	n := 0
	for _, g := range d.grids {
		n += g.ListenerCount()
		for _, c := range g.controls {
			n += c.ListenerCount()
		}
	}
	return n
}

// Grid is a table-like surface: header cells, one body of rows and the
// controls (filter inputs, buttons) that belong to it.
type Grid struct {
	Element
	Target

	Headers  []*Header
	body     *Body
	controls []*Control
}

// New creates a grid with id and one header per label.
func New(id string, labels ...string) *Grid {
	g := &Grid{
		Element: Element{Tag: "table", ID: id},
		body:    &Body{},
	}
	for _, l := range labels {
		g.AddHeader(l)
	}
	return g
}

// AddHeader appends a header cell.
func (g *Grid) AddHeader(label string) *Header {
	h := &Header{
		Element: Element{Tag: "th"},
		Label:   label,
		Index:   len(g.Headers),
	}
	g.Headers = append(g.Headers, h)
	return h
}

// Body returns the attached body, or nil while detached.
func (g *Grid) Body() *Body {
	return g.body
}

// DetachBody removes the body from the grid and returns it.
func (g *Grid) DetachBody() *Body {
	b := g.body
	g.body = nil
	return b
}

// AttachBody installs b as the grid body.
func (g *Grid) AttachBody(b *Body) {
	g.body = b
}

// AddControl attaches a control to the grid.
func (g *Grid) AddControl(c *Control) {
	g.controls = append(g.controls, c)
}

// Controls returns every control of the grid.
func (g *Grid) Controls() []*Control {
	return append([]*Control(nil), g.controls...)
}

// QueryControls returns the controls matching selector, in insertion order.
func (g *Grid) QueryControls(selector string) []*Control {
	var out []*Control
	for _, c := range g.controls {
		if c.Matches(selector) {
			out = append(out, c)
		}
	}
	return out
}

// QueryControl returns the first control matching selector, or nil.
func (g *Grid) QueryControl(selector string) *Control {
	for _, c := range g.controls {
		if c.Matches(selector) {
			return c
		}
	}
	return nil
}

// Dispatch delivers ev to the grid listeners.
func (g *Grid) Dispatch(ev *Event) {
	g.dispatch(ev)
}

// SetColumnWidth records the rendered width of a column on its header and
// on every body cell of that column.
func (g *Grid) SetColumnWidth(column, width int) {
	if column >= 0 && column < len(g.Headers) {
		g.Headers[column].Width = width
	}
	if g.body == nil {
		return
	}
	for _, r := range g.body.Rows {
		if column >= 0 && column < len(r.Cells) {
			r.Cells[column].Width = width
		}
	}
}

// Header is a column header cell.
type Header struct {
	Element

	Label string
	Index int
	Width int
}

// Body is the mutable container of rendered rows.
type Body struct {
	Rows []*RowNode
}

// Len returns the number of rendered rows.
func (b *Body) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// RowNode is the rendered projection of one data row.
type RowNode struct {
	Key   int
	Cells []*Cell
}

// Texts returns the text of every cell in order.
func (r *RowNode) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

// Cell is one rendered cell. A cell either shows Text, hosts the checkbox
// Control, or temporarily hosts the shared editor.
type Cell struct {
	RowKey  int
	Column  int
	Text    string
	Width   int
	Control *Control

	editor *TextInput
}

// Editor returns the text input currently hosted by the cell, if any.
func (c *Cell) Editor() *TextInput {
	return c.editor
}

// AppendEditor inserts in into the cell.
func (c *Cell) AppendEditor(in *TextInput) {
	if in.host != nil && in.host != c {
		in.host.RemoveEditor()
	}
	c.editor = in
	in.host = c
}

// RemoveEditor detaches the hosted input, if any.
func (c *Cell) RemoveEditor() {
	if c.editor == nil {
		return
	}
	c.editor.host = nil
	c.editor.Focused = false
	c.editor = nil
}
