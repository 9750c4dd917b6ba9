package validate

import (
	"strings"

	"github.com/adammathes/manifestfix/pkg/resvalue"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// check inspects one element and reports through the checker.
type check func(c *checker, el *xmldom.Element)

const (
	actionView        = "android.intent.action.VIEW"
	categoryBrowsable = "android.intent.category.BROWSABLE"
	categoryDefault   = "android.intent.category.DEFAULT"
)

func androidAttr(el *xmldom.Element, name string) *xmldom.Attribute {
	return el.FindAttribute(xmldom.SchemaAndroid, name)
}

// requireName reports a missing android:name as NAM-001.
func requireName(c *checker, el *xmldom.Element) (*xmldom.Attribute, bool) {
	attr := androidAttr(el, "name")
	if attr == nil {
		c.fail(el, "NAM-001", "<"+el.Name+"> is missing attribute 'android:name'")
		return nil, false
	}
	return attr, true
}

// NAM-001, NAM-002: android:name present and non-empty
func checkNameNotEmpty(c *checker, el *xmldom.Element) {
	attr, ok := requireName(c, el)
	if !ok {
		return
	}
	if attr.Value == "" {
		c.fail(el, "NAM-002", "android:name in <"+el.Name+"> must not be empty")
	}
}

// NAM-001, NAM-004: android:name present and a Java package name
func checkNameIsJavaPackage(c *checker, el *xmldom.Element) {
	attr, ok := requireName(c, el)
	if !ok {
		return
	}
	if !IsJavaPackageName(attr.Value) {
		c.fail(el, "NAM-004", "attribute 'android:name' in <"+el.Name+"> has invalid package name '"+attr.Value+"'")
	}
}

// NAM-003: android:name, when present, names a class in or relative to the
// manifest package
func checkOptionalClassName(c *checker, el *xmldom.Element) {
	attr := androidAttr(el, "name")
	if attr == nil {
		return
	}
	if _, ok := ResolveClassName(c.pkg, attr.Value); !ok {
		c.fail(el, "NAM-003", "attribute 'android:name' in <"+el.Name+"> has invalid class name '"+attr.Value+"'")
	}
}

// requireAttrs returns a check that each android attribute is present.
func requireAttrs(names ...string) check {
	return func(c *checker, el *xmldom.Element) {
		for _, n := range names {
			if androidAttr(el, n) == nil {
				// ATR-001: required android attribute missing
				c.fail(el, "ATR-001", "<"+el.Name+"> is missing attribute 'android:"+n+"'")
				return
			}
		}
	}
}

// MAN-005: a split attribute must hold a valid split name
func checkSplitName(c *checker, el *xmldom.Element) {
	attr := el.FindAttribute("", "split")
	if attr == nil {
		return
	}
	if !IsAndroidSplitName(attr.Value) {
		c.fail(el, "MAN-005", "attribute 'split' in <manifest> has invalid split name '"+attr.Value+"'")
	}
}

// FEA-001, FEA-002, FEA-003: exactly one of android:name and
// android:glEsVersion
func checkUsesFeature(c *checker, el *xmldom.Element) {
	name := androidAttr(el, "name")
	gles := androidAttr(el, "glEsVersion")
	switch {
	case name != nil && name.Value == "":
		c.fail(el, "FEA-003", "android:name in <uses-feature> must not be empty")
	case name != nil && gles != nil:
		c.fail(el, "FEA-001", "cannot define both android:name and android:glEsVersion in <uses-feature>")
	case name == nil && gles == nil:
		c.fail(el, "FEA-002", "<uses-feature> must have either android:name or android:glEsVersion attribute")
	}
}

// NAM-001, PRP-001: android:name present and exactly one of android:value
// and android:resource
func checkProperty(c *checker, el *xmldom.Element) {
	if _, ok := requireName(c, el); !ok {
		return
	}
	hasValue := androidAttr(el, "value") != nil
	hasResource := androidAttr(el, "resource") != nil
	if hasValue == hasResource {
		c.fail(el, "PRP-001", "<property> must define exactly one of 'android:value' or 'android:resource'")
	}
}

// LNK-001, LNK-002, LNK-003: deep-link intent filters
func checkDeepLink(c *checker, el *xmldom.Element) {
	var hasView, hasBrowsable, hasDefault, hasScheme bool
	for _, child := range el.ChildElements() {
		if child.NamespaceURI != "" {
			continue
		}
		name, _ := child.AttributeValue(xmldom.SchemaAndroid, "name")
		switch child.Name {
		case "action":
			hasView = hasView || name == actionView
		case "category":
			hasBrowsable = hasBrowsable || name == categoryBrowsable
			hasDefault = hasDefault || name == categoryDefault
		case "data":
			hasScheme = hasScheme || androidAttr(child, "scheme") != nil
		}
	}
	if !hasView || !hasBrowsable || !hasScheme {
		return
	}

	if !hasDefault {
		c.fail(el, "LNK-001", "deep-link <intent-filter> must declare category '"+categoryDefault+"'")
		if c.stop() {
			return
		}
	}
	for _, data := range el.FindChildren("", "data") {
		for _, attrName := range []string{"path", "pathPrefix"} {
			v, ok := data.AttributeValue(xmldom.SchemaAndroid, attrName)
			if !ok || resvalue.IsReference(v) || strings.HasPrefix(v, "/") {
				continue
			}
			c.fail(data, "LNK-002", "attribute 'android:"+attrName+"' in <data> of a deep link must start with '/' but was '"+v+"'")
			if c.stop() {
				return
			}
		}
		v, ok := data.AttributeValue(xmldom.SchemaAndroid, "pathPattern")
		if !ok || resvalue.IsReference(v) || v != "" && strings.ContainsAny(v[:1], "/.*") {
			continue
		}
		c.fail(data, "LNK-003", "attribute 'android:pathPattern' in <data> of a deep link must start with '/', '.' or '*' but was '"+v+"'")
		if c.stop() {
			return
		}
	}
}
