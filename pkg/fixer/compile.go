package fixer

import (
	"errors"

	"github.com/adammathes/manifestfix/pkg/resvalue"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// compileAttributes types every attribute the symbol source defines.
// Attributes that already carry a compiled value are left alone; setting an
// attribute clears its compiled value, so anything this pass wrote is
// compiled again.
func (p *pass) compileAttributes() bool {
	ok := true
	p.root.Walk(func(el *xmldom.Element) bool {
		if !ok {
			return false
		}
		for _, attr := range el.Attributes {
			if attr.Compiled != nil {
				continue
			}
			if !p.compile(el, attr) {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

func (p *pass) compile(el *xmldom.Element, attr *xmldom.Attribute) bool {
	def, found := p.src.FindAttribute(attr.NamespaceURI, attr.Name)
	if !found {
		return true
	}
	item, err := resvalue.ParseItem(attr.Value, def.TypeMask, def.SymbolValues())
	if err != nil {
		msg := "attribute '" + displayName(attr) + "' in <" + el.Name + "> has invalid value '" + attr.Value + "'; expected " + def.TypeMask.String()
		if !errors.Is(err, resvalue.ErrNotRepresentable) {
			msg += ": " + err.Error()
		}
		// TYP-001: value does not fit the attribute's format
		return p.fail(el, "TYP-001", msg)
	}
	if ref, isRef := item.(*resvalue.Reference); isRef && !p.resolve(ref) {
		// TYP-002: reference to a resource the source does not define
		return p.fail(el, "TYP-002", "attribute '"+displayName(attr)+"' in <"+el.Name+"> references unknown resource '"+attr.Value+"'")
	}
	attr.Compiled = item
	return true
}

// resolve fills in the ID of a resource reference. It fails only when the
// source holds the complete resource set of the referenced package and the
// name is not in it. Theme attributes and new IDs are not looked up.
func (p *pass) resolve(ref *resvalue.Reference) bool {
	if ref.Theme || ref.Create {
		return true
	}
	name := ref.Name
	if name.Package == "" {
		name.Package = p.origPkg
	}
	if id, ok := p.src.FindResource(name); ok {
		ref.ID = id
		return true
	}
	return !p.src.HasResources(name.Package)
}

func displayName(attr *xmldom.Attribute) string {
	switch attr.NamespaceURI {
	case "":
		return attr.Name
	case xmldom.SchemaAndroid:
		return "android:" + attr.Name
	}
	return "{" + attr.NamespaceURI + "}" + attr.Name
}
