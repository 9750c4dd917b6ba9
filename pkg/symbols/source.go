// Package symbols provides the attribute definitions the type compiler checks
// manifest values against. A Source answers two questions: what types may an
// attribute (namespace, name) hold, and does a referenced resource exist.
//
// Sources are read-only once built and safe for concurrent lookups.
package symbols

import (
	"strings"

	"github.com/adammathes/manifestfix/pkg/resvalue"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// Symbol is a named enum or flag constant of an attribute.
type Symbol struct {
	Name  string
	Value uint32
}

// Attribute is an attribute definition.
type Attribute struct {
	Name     resvalue.ResourceName
	ID       resvalue.ResourceID
	TypeMask resvalue.TypeMask
	Symbols  []Symbol
}

// SymbolValues returns the enum or flag constants keyed by name, or nil.
func (a *Attribute) SymbolValues() map[string]uint32 {
	if len(a.Symbols) == 0 {
		return nil
	}
	m := make(map[string]uint32, len(a.Symbols))
	for _, s := range a.Symbols {
		m[s.Name] = s.Value
	}
	return m
}

// Source resolves attribute definitions and resource references.
type Source interface {
	// FindAttribute looks up the definition of the attribute named name in
	// namespace URI ns. An empty ns asks for an unprefixed attribute.
	FindAttribute(ns, name string) (*Attribute, bool)
	// FindResource resolves a fully qualified resource name.
	FindResource(name resvalue.ResourceName) (resvalue.ResourceID, bool)
	// HasResources reports whether the source holds the complete resource
	// set of pkg, so a failed FindResource in pkg is a real miss.
	HasResources(pkg string) bool
}

// PackageForNamespace maps a namespace URI to the resource package that
// defines its attributes. Auto reports the res-auto namespace, whose package
// is the application's own.
func PackageForNamespace(ns string) (pkg string, auto bool, ok bool) {
	switch {
	case ns == xmldom.SchemaAuto:
		return "", true, true
	case strings.HasPrefix(ns, xmldom.SchemaPrefix):
		pkg = strings.TrimPrefix(ns, xmldom.SchemaPrefix)
		return pkg, false, pkg != ""
	}
	return "", false, false
}

// Chain consults each source in order and returns the first hit.
type Chain []Source

func (c Chain) FindAttribute(ns, name string) (*Attribute, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if a, ok := s.FindAttribute(ns, name); ok {
			return a, true
		}
	}
	return nil, false
}

func (c Chain) FindResource(name resvalue.ResourceName) (resvalue.ResourceID, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if id, ok := s.FindResource(name); ok {
			return id, true
		}
	}
	return 0, false
}

func (c Chain) HasResources(pkg string) bool {
	for _, s := range c {
		if s != nil && s.HasResources(pkg) {
			return true
		}
	}
	return false
}

var intrinsics = NewBuilder().
	AddUnprefixedAttribute("coreApp", resvalue.TypeBoolean).
	MustBuild()

// Intrinsics returns the unprefixed manifest attributes whose type is fixed
// by the toolchain rather than by any resource package.
func Intrinsics() Source {
	return intrinsics
}
