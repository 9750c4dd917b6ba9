// Package validate checks the structure of an application manifest: the
// root element and package, the elements allowed under each parent, and the
// per-element attribute rules (uses-feature exclusivity, required names,
// property values, deep-link paths).
//
// Findings go to a report.Report under stable check IDs. By default the
// walk stops at the first error, which is what the fixer needs; AllErrors
// keeps going so a reader sees every problem at once.
package validate

import (
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/resvalue"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// Options configures validation behavior.
type Options struct {
	// WarnUnknownElements reports unexpected no-namespace elements as
	// warnings and skips their subtrees instead of failing.
	WarnUnknownElements bool

	// AllErrors continues past the first error.
	AllErrors bool
}

// Manifest runs Root and then Tree.
func Manifest(doc *xmldom.Document, r *report.Report, opts Options) bool {
	if !Root(doc, r) {
		return false
	}
	return Tree(doc, r, opts)
}

// Root checks the root element and its package attribute. The fixer runs
// this before it touches the document, so renames and qualification only
// ever see a valid package.
func Root(doc *xmldom.Document, r *report.Report) bool {
	root := doc.Root
	if root == nil {
		r.Add(report.Fatal, "MAN-001", "document has no root element")
		return false
	}
	loc := report.Location(doc.Source, root.Line)

	// MAN-001: root must be an unqualified <manifest>
	if root.NamespaceURI != "" || root.Name != "manifest" {
		r.AddWithLocation(report.Error, "MAN-001", "root tag must be <manifest>, found <"+qualifiedName(root)+">", loc)
		return false
	}

	// MAN-002: package attribute must be present
	attr := root.FindAttribute("", "package")
	if attr == nil {
		r.AddWithLocation(report.Error, "MAN-002", "<manifest> must have a 'package' attribute", loc)
		return false
	}

	// MAN-003: package must be a literal
	if resvalue.IsReference(attr.Value) {
		r.AddWithLocation(report.Error, "MAN-003", "attribute 'package' in <manifest> must not be a reference", loc)
		return false
	}

	// MAN-004: package must be a valid package name
	if !IsAndroidPackageName(attr.Value) {
		msg := "attribute 'package' in <manifest> has invalid package name '" + attr.Value + "'"
		if attr.Value == "" {
			msg = "attribute 'package' in <manifest> must not be empty"
		}
		r.AddWithLocation(report.Error, "MAN-004", msg, loc)
		return false
	}
	return true
}

// Tree walks the manifest against the element rule table.
func Tree(doc *xmldom.Document, r *report.Report, opts Options) bool {
	root := doc.Root
	pkg, _ := root.AttributeValue("", "package")
	c := &checker{
		r:      r,
		source: doc.Source,
		pkg:    pkg,
		opts:   opts,
		ok:     true,
	}
	c.element(root, manifestRule)
	return c.ok
}

type checker struct {
	r      *report.Report
	source string
	pkg    string
	opts   Options
	ok     bool
}

func (c *checker) stop() bool {
	return !c.ok && !c.opts.AllErrors
}

func (c *checker) fail(el *xmldom.Element, checkID, msg string) {
	c.r.AddWithLocation(report.Error, checkID, msg, report.Location(c.source, el.Line))
	c.ok = false
}

func (c *checker) element(el *xmldom.Element, ru *rule) {
	for _, chk := range ru.checks {
		chk(c, el)
		if c.stop() {
			return
		}
	}
	for _, child := range el.ChildElements() {
		// Elements in any namespace belong to other tools.
		if child.NamespaceURI != "" {
			continue
		}
		next, ok := ru.children[child.Name]
		if !ok {
			// ELM-001: element not allowed under this parent
			msg := "unexpected element <" + child.Name + "> found in <" + el.Name + ">"
			if c.opts.WarnUnknownElements {
				c.r.AddWithLocation(report.Warning, "ELM-001", msg, report.Location(c.source, child.Line))
				continue
			}
			c.fail(child, "ELM-001", msg)
			if c.stop() {
				return
			}
			continue
		}
		c.element(child, next)
		if c.stop() {
			return
		}
	}
}

func qualifiedName(el *xmldom.Element) string {
	if el.NamespaceURI == "" {
		return el.Name
	}
	return "{" + el.NamespaceURI + "}" + el.Name
}
