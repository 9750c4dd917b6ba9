// Package fixer normalizes an application manifest in place. A single pass
// validates the root, resolves the android namespace prefix, renames and
// qualifies package and class names, injects configured defaults, merges
// fingerprint prefixes, validates the whole tree and finally compiles every
// attribute the symbol source knows into a typed value.
//
// Consume reports through a report.Report and returns false on the first
// error. The document may be partially modified at that point and must be
// discarded.
package fixer

import (
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/validate"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// Fixer applies one set of Options to manifests. It keeps no state between
// calls and may be shared by goroutines working on different documents.
type Fixer struct {
	opts Options
}

// New returns a Fixer for opts. The fingerprint prefixes are copied.
func New(opts Options) *Fixer {
	opts.FingerprintPrefixes = append([]string(nil), opts.FingerprintPrefixes...)
	return &Fixer{opts: opts}
}

// pass carries the state of one Consume call.
type pass struct {
	opts    *Options
	doc     *xmldom.Document
	root    *xmldom.Element
	src     symbols.Source
	r       *report.Report
	origPkg string
}

// Consume fixes doc in place and reports whether it is a valid manifest. A
// nil src compiles only the intrinsic manifest attributes.
func (f *Fixer) Consume(doc *xmldom.Document, src symbols.Source, r *report.Report) bool {
	if !f.opts.Validate(r) {
		return false
	}
	if !validate.Root(doc, r) {
		return false
	}

	p := &pass{
		opts: &f.opts,
		doc:  doc,
		root: doc.Root,
		src:  symbols.Chain{symbols.Intrinsics(), src},
		r:    r,
	}
	p.origPkg, _ = p.root.AttributeValue("", "package")

	steps := []func() bool{
		p.ensureNamespace,
		p.renamePackages,
		p.qualifyClassNames,
		p.featureSplits,
		p.usesSdk,
		p.versions,
		p.compileSdk,
		p.nonUpdatableSystem,
		p.debuggable,
		p.fingerprintPrefixes,
		func() bool {
			return validate.Tree(doc, r, validate.Options{WarnUnknownElements: f.opts.WarnValidation})
		},
		p.compileAttributes,
	}
	for _, step := range steps {
		if !step() {
			return false
		}
	}
	return true
}

func (p *pass) loc(el *xmldom.Element) string {
	return report.Location(p.doc.Source, el.Line)
}

func (p *pass) fixed(el *xmldom.Element, checkID, msg string) {
	p.r.AddWithLocation(report.Info, checkID, msg, p.loc(el))
}

func (p *pass) fail(el *xmldom.Element, checkID, msg string) bool {
	p.r.AddWithLocation(report.Error, checkID, msg, p.loc(el))
	return false
}
