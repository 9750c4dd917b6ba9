package symbols

import (
	"errors"
	"fmt"

	"github.com/adammathes/manifestfix/pkg/resvalue"
)

// StaticSource is an in-memory Source.
type StaticSource struct {
	pkg        string
	attrs      map[resvalue.ResourceName]*Attribute
	unprefixed map[string]*Attribute
	resources  map[resvalue.ResourceName]resvalue.ResourceID
	complete   map[string]bool
}

func (s *StaticSource) FindAttribute(ns, name string) (*Attribute, bool) {
	if ns == "" {
		a, ok := s.unprefixed[name]
		return a, ok
	}
	pkg, auto, ok := PackageForNamespace(ns)
	if !ok {
		return nil, false
	}
	if auto {
		pkg = s.pkg
	}
	a, ok := s.attrs[resvalue.ResourceName{Package: pkg, Type: "attr", Entry: name}]
	return a, ok
}

func (s *StaticSource) FindResource(name resvalue.ResourceName) (resvalue.ResourceID, bool) {
	if name.Type == "attr" {
		if a, ok := s.attrs[name]; ok {
			return a.ID, true
		}
	}
	id, ok := s.resources[name]
	return id, ok
}

func (s *StaticSource) HasResources(pkg string) bool {
	return s.complete[pkg]
}

// Package is the package res-auto attributes resolve in.
func (s *StaticSource) Package() string { return s.pkg }

// Len returns the number of attribute definitions.
func (s *StaticSource) Len() int { return len(s.attrs) + len(s.unprefixed) }

// Builder assembles a StaticSource. Errors are collected and reported by
// Build.
type Builder struct {
	src  *StaticSource
	errs []error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{src: &StaticSource{
		attrs:      make(map[resvalue.ResourceName]*Attribute),
		unprefixed: make(map[string]*Attribute),
		resources:  make(map[resvalue.ResourceName]resvalue.ResourceID),
		complete:   make(map[string]bool),
	}}
}

// SetPackage sets the package that res-auto attributes and unqualified
// resource names belong to.
func (b *Builder) SetPackage(pkg string) *Builder {
	b.src.pkg = pkg
	return b
}

func (b *Builder) qualify(s string) (resvalue.ResourceName, error) {
	n, err := resvalue.ParseResourceName(s)
	if err != nil {
		return n, err
	}
	if n.Package == "" {
		n.Package = b.src.pkg
	}
	return n, nil
}

// AddAttribute defines an attribute such as "android:attr/minSdkVersion".
func (b *Builder) AddAttribute(name string, id resvalue.ResourceID, mask resvalue.TypeMask, syms ...Symbol) *Builder {
	n, err := b.qualify(name)
	if err == nil && n.Type != "attr" {
		err = fmt.Errorf("%s is not an attr", name)
	}
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if _, dup := b.src.attrs[n]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate attribute %s", n))
		return b
	}
	b.src.attrs[n] = &Attribute{Name: n, ID: id, TypeMask: mask, Symbols: syms}
	return b
}

// AddUnprefixedAttribute defines an attribute that appears without a
// namespace in manifests.
func (b *Builder) AddUnprefixedAttribute(name string, mask resvalue.TypeMask, syms ...Symbol) *Builder {
	b.src.unprefixed[name] = &Attribute{
		Name:     resvalue.ResourceName{Type: "attr", Entry: name},
		TypeMask: mask,
		Symbols:  syms,
	}
	return b
}

// AddResource defines a resource such as "string/app_name". Adding any
// resource of a package marks that package's resource set as complete.
func (b *Builder) AddResource(name string, id resvalue.ResourceID) *Builder {
	n, err := b.qualify(name)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.src.resources[n] = id
	b.src.complete[n.Package] = true
	return b
}

// Build returns the source, or the joined errors of every failed Add call.
func (b *Builder) Build() (*StaticSource, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.src, nil
}

// MustBuild is Build for tables known to be valid.
func (b *Builder) MustBuild() *StaticSource {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
