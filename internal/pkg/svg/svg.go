// Package svg is a small element model for building SVG markup.
//
// Elements are plain values; a Group collects elements and can be cleared and
// redrawn, which is how the graph keeps each of its layers idempotent.
package svg

import (
	"encoding/xml"
	"strconv"
	"sync"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an SVG node with ordered attributes, optional text and children.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []Element
}

// New builds an element from name/value pairs.
func New(name string, attrs ...string) Element {
	el := Element{Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Attrs = append(el.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return el
}

// Attr returns the value of the named attribute.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Float returns the named attribute parsed as a number.
func (e Element) Float(name string) (float64, bool) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// WithText returns a copy of e carrying the given text content.
func (e Element) WithText(text string) Element {
	e.Text = text
	return e
}

// MarshalXML implements xml.Marshaler.
func (e Element) MarshalXML(enc *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, child := range e.Children {
		if err := enc.EncodeElement(child, xml.StartElement{}); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Num formats a coordinate the shortest way that round-trips.
func Num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Group is a named container whose children can be replaced wholesale.
// It is safe for concurrent use.
type Group struct {
	id       string
	mu       sync.RWMutex
	children []Element
}

// NewGroup creates an empty group with the given element id.
func NewGroup(id string) *Group {
	return &Group{id: id}
}

// ID returns the group's element id.
func (g *Group) ID() string {
	return g.id
}

// Clear removes all children.
func (g *Group) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = nil
}

// Append adds a child element.
func (g *Group) Append(el Element) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, el)
}

// Elements returns a copy of the children.
func (g *Group) Elements() []Element {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Element, len(g.children))
	copy(out, g.children)
	return out
}

// Element renders the group as a <g> element.
func (g *Group) Element() Element {
	el := New("g", "id", g.id)
	el.Children = g.Elements()
	return el
}
