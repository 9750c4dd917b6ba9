// Package resvalue holds compiled attribute values and the lexical parsers
// that turn raw attribute text into them.
//
// A compiled value is one of three shapes: a Primitive (boolean, integer,
// color, float, dimension, fraction or null), a Reference to another
// resource or theme attribute, or a String. Which shapes an attribute may
// take is described by its TypeMask.
package resvalue

import (
	"fmt"
	"math"
	"strings"
)

// TypeMask is the set of value types an attribute definition allows.
// The bit layout matches the platform's attribute format flags.
type TypeMask uint32

const (
	TypeReference TypeMask = 1 << iota
	TypeString
	TypeInteger
	TypeBoolean
	TypeColor
	TypeFloat
	TypeDimension
	TypeFraction

	TypeAny TypeMask = 0x0000ffff

	TypeEnum  TypeMask = 1 << 16
	TypeFlags TypeMask = 1 << 17
)

var maskNames = []struct {
	mask TypeMask
	name string
}{
	{TypeReference, "reference"},
	{TypeString, "string"},
	{TypeInteger, "integer"},
	{TypeBoolean, "boolean"},
	{TypeColor, "color"},
	{TypeFloat, "float"},
	{TypeDimension, "dimension"},
	{TypeFraction, "fraction"},
	{TypeEnum, "enum"},
	{TypeFlags, "flags"},
}

// Has reports whether any of the types in t are allowed by m.
func (m TypeMask) Has(t TypeMask) bool {
	return m&t != 0
}

// String renders the mask the way attribute formats are written, e.g.
// "string|integer".
func (m TypeMask) String() string {
	if m&TypeAny == TypeAny {
		return "any"
	}
	var parts []string
	for _, n := range maskNames {
		if m&n.mask != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseTypeMask parses a format string such as "string|integer".
func ParseTypeMask(s string) (TypeMask, error) {
	var m TypeMask
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "any" {
			m |= TypeAny
			continue
		}
		found := false
		for _, n := range maskNames {
			if n.name == part {
				m |= n.mask
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown attribute format %q", part)
		}
	}
	return m, nil
}

// Kind identifies the concrete type of a compiled value.
type Kind uint8

const (
	KindNull Kind = iota
	KindReference
	KindAttribute
	KindString
	KindFloat
	KindDimension
	KindFraction
	KindIntDec
	KindIntHex
	KindBoolean
	KindColorARGB8
	KindColorRGB8
	KindColorARGB4
	KindColorRGB4
)

var kindNames = [...]string{
	KindNull:       "null",
	KindReference:  "reference",
	KindAttribute:  "attribute",
	KindString:     "string",
	KindFloat:      "float",
	KindDimension:  "dimension",
	KindFraction:   "fraction",
	KindIntDec:     "int-dec",
	KindIntHex:     "int-hex",
	KindBoolean:    "boolean",
	KindColorARGB8: "color-argb8",
	KindColorRGB8:  "color-rgb8",
	KindColorARGB4: "color-argb4",
	KindColorRGB4:  "color-rgb4",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Mask returns the attribute type that admits values of kind k.
func (k Kind) Mask() TypeMask {
	switch k {
	case KindReference, KindAttribute, KindNull:
		return TypeReference
	case KindString:
		return TypeString
	case KindFloat:
		return TypeFloat
	case KindDimension:
		return TypeDimension
	case KindFraction:
		return TypeFraction
	case KindIntDec, KindIntHex:
		return TypeInteger
	case KindBoolean:
		return TypeBoolean
	case KindColorARGB8, KindColorRGB8, KindColorARGB4, KindColorRGB4:
		return TypeColor
	}
	return 0
}

// Item is a compiled attribute value.
type Item interface {
	Kind() Kind
	String() string
}

// Primitive is a value that fits in 32 bits of data.
type Primitive struct {
	Type Kind
	Data uint32
}

// Null data values.
const (
	DataNullUndefined uint32 = 0
	DataNullEmpty     uint32 = 1
)

func (p *Primitive) Kind() Kind { return p.Type }

// Bool returns the boolean held by p; ok is false when p is not a boolean.
func (p *Primitive) Bool() (v bool, ok bool) {
	if p.Type != KindBoolean {
		return false, false
	}
	return p.Data != 0, true
}

func (p *Primitive) String() string {
	switch p.Type {
	case KindNull:
		if p.Data == DataNullEmpty {
			return "(empty)"
		}
		return "(null)"
	case KindBoolean:
		if p.Data != 0 {
			return "true"
		}
		return "false"
	case KindIntDec:
		return fmt.Sprintf("%d", int32(p.Data))
	case KindIntHex:
		return fmt.Sprintf("0x%08x", p.Data)
	case KindFloat:
		return fmt.Sprintf("%g", math.Float32frombits(p.Data))
	case KindDimension:
		return fmt.Sprintf("%g%s", complexToFloat(p.Data), dimensionUnitName(p.Data&complexUnitMask))
	case KindFraction:
		return fmt.Sprintf("%g%s", complexToFloat(p.Data)*100, fractionUnitName(p.Data&complexUnitMask))
	case KindColorARGB8, KindColorRGB8, KindColorARGB4, KindColorRGB4:
		return fmt.Sprintf("#%08x", p.Data)
	}
	return fmt.Sprintf("(%s) 0x%08x", p.Type, p.Data)
}

// ResourceName names a resource as package:type/entry.
type ResourceName struct {
	Package string
	Type    string
	Entry   string
}

func (n ResourceName) String() string {
	if n.Package == "" {
		return n.Type + "/" + n.Entry
	}
	return n.Package + ":" + n.Type + "/" + n.Entry
}

// ParseResourceName parses "[pkg:]type/entry".
func ParseResourceName(s string) (ResourceName, error) {
	pkg, rest := splitPackage(strings.TrimSpace(s))
	typ, entry, ok := strings.Cut(rest, "/")
	if !ok || entry == "" || !IsResourceType(typ) {
		return ResourceName{}, fmt.Errorf("invalid resource name %q", s)
	}
	return ResourceName{Package: pkg, Type: typ, Entry: entry}, nil
}

// ResourceID is a packed package/type/entry identifier. Zero means unassigned.
type ResourceID uint32

// IsValid reports whether the id has been assigned.
func (id ResourceID) IsValid() bool { return id != 0 }

func (id ResourceID) String() string { return fmt.Sprintf("0x%08x", uint32(id)) }

// Reference points at another resource (@type/name) or theme attribute (?attr).
type Reference struct {
	Name    ResourceName
	ID      ResourceID
	Theme   bool // ?attr form
	Private bool // @*pkg:type/name form
	Create  bool // @+id/name form
}

func (r *Reference) Kind() Kind {
	if r.Theme {
		return KindAttribute
	}
	return KindReference
}

func (r *Reference) String() string {
	var b strings.Builder
	if r.Theme {
		b.WriteByte('?')
	} else {
		b.WriteByte('@')
	}
	if r.Create {
		b.WriteByte('+')
	}
	if r.Private {
		b.WriteByte('*')
	}
	b.WriteString(r.Name.String())
	return b.String()
}

// String is a value kept as text.
type String struct {
	Value string
}

func (s *String) Kind() Kind { return KindString }

func (s *String) String() string { return s.Value }
