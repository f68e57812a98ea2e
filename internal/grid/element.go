package grid

import (
	"sort"
	"strings"
)

// Element carries the tag, id, attributes and classes shared by every node
// of the surface.
type Element struct {
	Tag     string
	ID      string
	attrs   map[string]string
	classes map[string]bool
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// HasAttr reports whether the attribute is set, even to "".
func (e *Element) HasAttr(name string) bool {
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	delete(e.attrs, name)
}

// AddClass adds a class name.
func (e *Element) AddClass(name string) {
	if e.classes == nil {
		e.classes = make(map[string]bool)
	}
	e.classes[name] = true
}

// RemoveClass removes a class name.
func (e *Element) RemoveClass(name string) {
	delete(e.classes, name)
}

// HasClass reports whether the class is present.
func (e *Element) HasClass(name string) bool {
	return e.classes[name]
}

// ClassName returns the classes joined by spaces, sorted.
func (e *Element) ClassName() string {
	names := make([]string, 0, len(e.classes))
	for c := range e.classes {
		names = append(names, c)
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

// Matches reports whether the element satisfies a simple selector of the
// form tag#id.class[attr=value]. Every part is optional.
func (e *Element) Matches(selector string) bool {
	sel, ok := parseSelector(selector)
	if !ok {
		return false
	}
	if sel.tag != "" && !strings.EqualFold(sel.tag, e.Tag) {
		return false
	}
	if sel.id != "" && sel.id != e.ID {
		return false
	}
	if sel.class != "" && !e.HasClass(sel.class) {
		return false
	}
	if sel.attr != "" {
		if !e.HasAttr(sel.attr) {
			return false
		}
		if sel.hasValue && e.Attr(sel.attr) != sel.value {
			return false
		}
	}
	return true
}

// ElementFor builds an element that satisfies selector.
func ElementFor(selector string) Element {
	sel, _ := parseSelector(selector)
	e := Element{Tag: sel.tag, ID: sel.id}
	if sel.class != "" {
		e.AddClass(sel.class)
	}
	if sel.attr != "" {
		e.SetAttr(sel.attr, sel.value)
	}
	return e
}

type selector struct {
	tag      string
	id       string
	class    string
	attr     string
	value    string
	hasValue bool
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return selector{}, false
	}

	var sel selector
	if i := strings.IndexByte(s, '['); i >= 0 {
		end := strings.LastIndexByte(s, ']')
		if end < i {
			return selector{}, false
		}
		inner := s[i+1 : end]
		if name, value, found := strings.Cut(inner, "="); found {
			sel.attr = strings.TrimSpace(name)
			sel.value = strings.Trim(strings.TrimSpace(value), `"'`)
			sel.hasValue = true
		} else {
			sel.attr = strings.TrimSpace(inner)
		}
		if sel.attr == "" {
			return selector{}, false
		}
		s = s[:i] + s[end+1:]
	}

	if i := strings.IndexByte(s, '.'); i >= 0 {
		sel.class = s[i+1:]
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		sel.id = s[i+1:]
		s = s[:i]
	}
	sel.tag = s
	return sel, true
}
