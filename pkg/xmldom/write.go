package xmldom

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

const indent = "    "

// WriteFile encodes doc to path.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Encode writes doc as indented XML. Prefixes come from the namespace
// declarations in scope; a URI with no binding gets a generated ns<N> prefix
// declared on the element that needs it.
func Encode(w io.Writer, doc *Document) error {
	if doc.Root == nil {
		return ErrNoRoot
	}
	enc := &encoder{w: bufio.NewWriter(w)}
	enc.str(xml.Header)
	enc.element(doc.Root, 0)
	if enc.err != nil {
		return enc.err
	}
	return enc.w.Flush()
}

// String renders doc, mainly for tests and debugging.
func (d *Document) String() string {
	var b strings.Builder
	if err := Encode(&b, d); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return b.String()
}

type encoder struct {
	w     *bufio.Writer
	err   error
	scope [][]NamespaceDecl
	gen   int
}

func (e *encoder) str(s string) {
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) escaped(s string) {
	if e.err == nil {
		e.err = xml.EscapeText(e.w, []byte(s))
	}
}

// lookup finds the innermost prefix bound to uri. Attributes need a named
// prefix, so the default namespace only counts for elements.
func (e *encoder) lookup(uri string, allowDefault bool) (string, bool) {
	for i := len(e.scope) - 1; i >= 0; i-- {
		decls := e.scope[i]
		for j := len(decls) - 1; j >= 0; j-- {
			d := decls[j]
			if d.URI != uri || (d.Prefix == "" && !allowDefault) {
				continue
			}
			if bound, _ := e.boundURI(d.Prefix); bound == uri {
				return d.Prefix, true
			}
		}
	}
	return "", false
}

// boundURI returns what prefix currently resolves to.
func (e *encoder) boundURI(prefix string) (string, bool) {
	for i := len(e.scope) - 1; i >= 0; i-- {
		for _, d := range e.scope[i] {
			if d.Prefix == prefix {
				return d.URI, true
			}
		}
	}
	return "", false
}

func (e *encoder) qualify(decls *[]NamespaceDecl, uri, local string, isElement bool) string {
	if uri == "" {
		return local
	}
	if p, ok := e.lookup(uri, isElement); ok {
		if p == "" {
			return local
		}
		return p + ":" + local
	}
	for {
		p := fmt.Sprintf("ns%d", e.gen)
		e.gen++
		if _, taken := e.boundURI(p); !taken {
			*decls = append(*decls, NamespaceDecl{Prefix: p, URI: uri})
			e.scope[len(e.scope)-1] = *decls
			return p + ":" + local
		}
	}
}

func (e *encoder) element(el *Element, depth int) {
	decls := append([]NamespaceDecl(nil), el.NamespaceDecls...)
	e.scope = append(e.scope, decls)
	defer func() { e.scope = e.scope[:len(e.scope)-1] }()

	if el.NamespaceURI == "" {
		if def, ok := e.boundURI(""); ok && def != "" {
			decls = append(decls, NamespaceDecl{})
			e.scope[len(e.scope)-1] = decls
		}
	}
	name := e.qualify(&decls, el.NamespaceURI, el.Name, true)
	attrNames := make([]string, len(el.Attributes))
	for i, a := range el.Attributes {
		attrNames[i] = e.qualify(&decls, a.NamespaceURI, a.Name, false)
	}

	pad := strings.Repeat(indent, depth)
	e.str(pad + "<" + name)
	for _, d := range decls {
		if d.Prefix == "" {
			e.str(` xmlns="`)
		} else {
			e.str(" xmlns:" + d.Prefix + `="`)
		}
		e.escaped(d.URI)
		e.str(`"`)
	}
	for i, a := range el.Attributes {
		e.str(" " + attrNames[i] + `="`)
		e.escaped(a.Value)
		e.str(`"`)
	}

	if len(el.Children) == 0 {
		e.str("/>\n")
		return
	}
	if onlyText(el) {
		e.str(">")
		for _, c := range el.Children {
			e.escaped(c.(*Text).Data)
		}
		e.str("</" + name + ">\n")
		return
	}
	e.str(">\n")
	for _, c := range el.Children {
		switch c := c.(type) {
		case *Element:
			e.element(c, depth+1)
		case *Text:
			e.str(pad + indent)
			e.escaped(strings.TrimSpace(c.Data))
			e.str("\n")
		}
	}
	e.str(pad + "</" + name + ">\n")
}

func onlyText(el *Element) bool {
	for _, c := range el.Children {
		if _, ok := c.(*Text); !ok {
			return false
		}
	}
	return true
}
