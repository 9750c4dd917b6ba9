package xmldom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrNoRoot is returned when the input holds no element.
	ErrNoRoot = errors.New("document has no root element")
	// ErrMultipleRoots is returned when elements follow the root element.
	ErrMultipleRoots = errors.New("document has more than one root element")
)

// ParseFile reads and parses the XML file at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data), path)
}

// Parse builds a Document from r. Comments, processing instructions and
// whitespace-only text are dropped. source names the input in diagnostics.
func Parse(r io.Reader, source string) (*Document, error) {
	d := xml.NewDecoder(r)
	doc := &Document{Source: source}
	var stack []*Element

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", source, err)
		}
		line, col := d.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				NamespaceURI: t.Name.Space,
				Name:         t.Name.Local,
				Line:         line,
				Column:       col,
			}
			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					el.NamespaceDecls = append(el.NamespaceDecls, NamespaceDecl{Prefix: a.Name.Local, URI: a.Value})
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					el.NamespaceDecls = append(el.NamespaceDecls, NamespaceDecl{URI: a.Value})
				default:
					el.Attributes = append(el.Attributes, &Attribute{
						NamespaceURI: a.Name.Space,
						Name:         a.Name.Local,
						Value:        a.Value,
					})
				}
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, fmt.Errorf("parsing %s: line %d: %w", source, line, ErrMultipleRoots)
				}
				doc.Root = el
			} else {
				stack[len(stack)-1].AppendChild(el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 || strings.TrimSpace(string(t)) == "" {
				continue
			}
			stack[len(stack)-1].AppendChild(&Text{Data: string(t), Line: line})
		}
	}

	if doc.Root == nil {
		return nil, fmt.Errorf("parsing %s: %w", source, ErrNoRoot)
	}
	return doc, nil
}
