// Package xmldom is a small mutable XML element tree. Elements and
// attributes are addressed by (namespace URI, local name); prefixes only
// exist as namespace declarations and are resolved when the tree is written.
package xmldom

import "github.com/adammathes/manifestfix/pkg/resvalue"

// Namespace URIs used by manifests.
const (
	SchemaAndroid = "http://schemas.android.com/apk/res/android"
	SchemaAuto    = "http://schemas.android.com/apk/res-auto"
	SchemaPrefix  = "http://schemas.android.com/apk/res/"
	SchemaTools   = "http://schemas.android.com/tools"
)

// Document owns a single root element.
type Document struct {
	Source string // file name used in diagnostics
	Root   *Element
}

// Node is an Element or a Text.
type Node interface {
	node()
}

// NamespaceDecl binds a prefix to a URI on the element that declares it.
// An empty prefix is the default namespace.
type NamespaceDecl struct {
	Prefix string
	URI    string
}

// Attribute is a (namespace, name) = value pair. Compiled is set by the
// type compiler and cleared whenever Value is replaced through SetAttribute.
type Attribute struct {
	NamespaceURI string
	Name         string
	Value        string
	Compiled     resvalue.Item
}

// Element is a named node with attributes and ordered children.
type Element struct {
	NamespaceURI   string
	Name           string
	Line           int
	Column         int
	NamespaceDecls []NamespaceDecl
	Attributes     []*Attribute
	Children       []Node
}

// Text is character data between elements.
type Text struct {
	Data string
	Line int
}

func (*Element) node() {}
func (*Text) node()    {}

// NewElement returns an element with no namespace binding of its own.
func NewElement(ns, name string) *Element {
	return &Element{NamespaceURI: ns, Name: name}
}

// FindAttribute returns the attribute with the given namespace and name, or nil.
func (e *Element) FindAttribute(ns, name string) *Attribute {
	for _, a := range e.Attributes {
		if a.NamespaceURI == ns && a.Name == name {
			return a
		}
	}
	return nil
}

// AttributeValue returns the raw value of an attribute and whether it exists.
func (e *Element) AttributeValue(ns, name string) (string, bool) {
	if a := e.FindAttribute(ns, name); a != nil {
		return a.Value, true
	}
	return "", false
}

// FindOrCreateAttribute returns the named attribute, appending an empty one
// if it does not exist.
func (e *Element) FindOrCreateAttribute(ns, name string) *Attribute {
	if a := e.FindAttribute(ns, name); a != nil {
		return a
	}
	a := &Attribute{NamespaceURI: ns, Name: name}
	e.Attributes = append(e.Attributes, a)
	return a
}

// SetAttribute sets value on the named attribute, creating it if needed, and
// drops any compiled value.
func (e *Element) SetAttribute(ns, name, value string) *Attribute {
	a := e.FindOrCreateAttribute(ns, name)
	a.Value = value
	a.Compiled = nil
	return a
}

// RemoveAttribute deletes the named attribute and reports whether it existed.
func (e *Element) RemoveAttribute(ns, name string) bool {
	for i, a := range e.Attributes {
		if a.NamespaceURI == ns && a.Name == name {
			e.Attributes = append(e.Attributes[:i], e.Attributes[i+1:]...)
			return true
		}
	}
	return false
}

// ChildElements returns the element children in document order.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FindChild returns the first child element with the given namespace and name.
func (e *Element) FindChild(ns, name string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.NamespaceURI == ns && el.Name == name {
			return el
		}
	}
	return nil
}

// FindChildren returns every child element with the given namespace and name.
func (e *Element) FindChildren(ns, name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.NamespaceURI == ns && el.Name == name {
			out = append(out, el)
		}
	}
	return out
}

// FindChildWithAttribute returns the first matching child whose attribute
// (attrNS, attrName) equals value.
func (e *Element) FindChildWithAttribute(ns, name, attrNS, attrName, value string) *Element {
	for _, el := range e.FindChildren(ns, name) {
		if v, ok := el.AttributeValue(attrNS, attrName); ok && v == value {
			return el
		}
	}
	return nil
}

// AppendChild adds n as the last child.
func (e *Element) AppendChild(n Node) {
	e.Children = append(e.Children, n)
}

// InsertChild inserts n before position i. Out-of-range positions append.
func (e *Element) InsertChild(i int, n Node) {
	if i < 0 || i >= len(e.Children) {
		e.AppendChild(n)
		return
	}
	e.Children = append(e.Children, nil)
	copy(e.Children[i+1:], e.Children[i:])
	e.Children[i] = n
}

// IndexOf returns the position of n among the children, or -1.
func (e *Element) IndexOf(n Node) int {
	for i, c := range e.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// RemoveChild detaches n and reports whether it was a child.
func (e *Element) RemoveChild(n Node) bool {
	i := e.IndexOf(n)
	if i < 0 {
		return false
	}
	e.Children = append(e.Children[:i], e.Children[i+1:]...)
	return true
}

// Walk visits e and its descendants in document order. Returning false from
// fn skips the element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

// LookupPrefix returns the prefix this element itself declares for uri.
func (e *Element) LookupPrefix(uri string) (string, bool) {
	for _, d := range e.NamespaceDecls {
		if d.URI == uri {
			return d.Prefix, true
		}
	}
	return "", false
}

// Clone returns a deep copy of e. Compiled values are shared; they are
// never mutated in place.
func (e *Element) Clone() *Element {
	c := &Element{
		NamespaceURI:   e.NamespaceURI,
		Name:           e.Name,
		Line:           e.Line,
		Column:         e.Column,
		NamespaceDecls: append([]NamespaceDecl(nil), e.NamespaceDecls...),
	}
	for _, a := range e.Attributes {
		ac := *a
		c.Attributes = append(c.Attributes, &ac)
	}
	for _, n := range e.Children {
		switch n := n.(type) {
		case *Element:
			c.Children = append(c.Children, n.Clone())
		case *Text:
			t := *n
			c.Children = append(c.Children, &t)
		}
	}
	return c
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{Source: d.Source}
	if d.Root != nil {
		c.Root = d.Root.Clone()
	}
	return c
}
