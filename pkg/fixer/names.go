package fixer

import (
	"github.com/adammathes/manifestfix/pkg/resvalue"
	"github.com/adammathes/manifestfix/pkg/validate"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// componentElements are the children of <application> whose android:name
// is a class name.
var componentElements = []string{"activity", "activity-alias", "service", "receiver", "provider"}

// renamePackages applies the configured package renames. Each touches a
// single attribute. Target packages are replaced only when present, but the
// overlay category is always written.
func (p *pass) renamePackages() bool {
	if pkg := p.opts.RenameManifestPackage; pkg != "" {
		p.root.SetAttribute("", "package", pkg)
		p.fixed(p.root, "FIX-PKG", "renamed package '"+p.origPkg+"' to '"+pkg+"'")
	}
	for _, el := range p.root.FindChildren("", "instrumentation") {
		p.replaceTarget(el, p.opts.RenameInstrumentationTargetPackage)
	}
	for _, el := range p.root.FindChildren("", "overlay") {
		p.replaceTarget(el, p.opts.RenameOverlayTargetPackage)
		if cat := p.opts.RenameOverlayCategory; cat != "" {
			el.SetAttribute(xmldom.SchemaAndroid, "category", cat)
			p.fixed(el, "FIX-OVL", "set <overlay> android:category to '"+cat+"'")
		}
	}
	return true
}

func (p *pass) replaceTarget(el *xmldom.Element, pkg string) {
	if pkg == "" {
		return
	}
	attr := el.FindAttribute(xmldom.SchemaAndroid, "targetPackage")
	if attr == nil {
		return
	}
	old := attr.Value
	el.SetAttribute(xmldom.SchemaAndroid, "targetPackage", pkg)
	p.fixed(el, "FIX-PKG", "renamed <"+el.Name+"> android:targetPackage '"+old+"' to '"+pkg+"'")
}

// qualifyClassNames expands class names starting with "." against the
// package the manifest had before any rename.
func (p *pass) qualifyClassNames() bool {
	for _, el := range p.root.FindChildren("", "instrumentation") {
		p.qualify(el)
	}
	for _, app := range p.root.FindChildren("", "application") {
		p.qualify(app)
		for _, child := range app.ChildElements() {
			if child.NamespaceURI == "" && isComponent(child.Name) {
				p.qualify(child)
			}
		}
	}
	return true
}

func isComponent(name string) bool {
	for _, c := range componentElements {
		if c == name {
			return true
		}
	}
	return false
}

func (p *pass) qualify(el *xmldom.Element) {
	attr := el.FindAttribute(xmldom.SchemaAndroid, "name")
	if attr == nil {
		return
	}
	full, ok := validate.FullyQualify(p.origPkg, attr.Value)
	if !ok {
		return
	}
	old := attr.Value
	el.SetAttribute(xmldom.SchemaAndroid, "name", full)
	p.fixed(el, "FIX-QUAL", "qualified <"+el.Name+"> android:name '"+old+"' as '"+full+"'")
}

// featureSplits rewrites featureSplit to split and marks the manifest as a
// feature split, and marks a manifest with required split types as needing
// its splits.
func (p *pass) featureSplits() bool {
	if attr := p.root.FindAttribute("", "featureSplit"); attr != nil {
		// MAN-006: featureSplit conflicts with isFeatureSplit="false"
		if !p.requireTrue("isFeatureSplit", "MAN-006", "featureSplit") {
			return false
		}
		p.root.RemoveAttribute("", "split")
		attr.Name = "split"
		attr.Compiled = nil
		p.fixed(p.root, "FIX-SPLIT", "renamed featureSplit='"+attr.Value+"' to split")
	}
	if p.root.FindAttribute(xmldom.SchemaAndroid, "requiredSplitTypes") != nil {
		// MAN-007: requiredSplitTypes conflicts with isSplitRequired="false"
		if !p.requireTrue("isSplitRequired", "MAN-007", "android:requiredSplitTypes") {
			return false
		}
	}
	return true
}

// requireTrue adds the named android attribute as "true", or fails if the attribute is
// already present with another value.
func (p *pass) requireTrue(name, checkID, cause string) bool {
	attr := p.root.FindAttribute(xmldom.SchemaAndroid, name)
	if attr == nil {
		p.root.SetAttribute(xmldom.SchemaAndroid, name, "true")
		p.fixed(p.root, "FIX-SPLIT", "added android:"+name+"=\"true\"")
		return true
	}
	if b, ok := resvalue.ParseBool(attr.Value); ok {
		if v, _ := b.Bool(); v {
			return true
		}
	}
	return p.fail(p.root, checkID, "attribute '"+cause+"' used in <manifest> but 'android:"+name+"' is not 'true'")
}
