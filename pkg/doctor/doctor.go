// Package doctor implements the file-level repair mode: it reads a manifest
// from disk, applies the fixer, and writes the fixed document.
//
// The approach:
//  1. Parse the manifest file
//  2. Run the validators alone on an untouched copy (the "before" report)
//  3. Run the fixer on a second copy (the "after" report)
//  4. If the fixer succeeded, write the fixed XML
//
// Every change the fixer makes shows up in the after report as an INFO
// message with a FIX- check ID; Result.Fixes lists them in order.
package doctor

import (
	"fmt"
	"log/slog"

	"github.com/adammathes/manifestfix/pkg/fixer"
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/validate"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// Fix represents a single applied fix.
type Fix struct {
	CheckID     string
	Description string
	Location    string
}

// Result holds the outcome of a doctor run.
type Result struct {
	Fixes        []Fix
	BeforeReport *report.Report
	AfterReport  *report.Report

	// Written is the output path, or empty if nothing was written.
	Written string
}

// OK reports whether the fixer accepted the manifest.
func (r *Result) OK() bool {
	return r.AfterReport.IsValid()
}

// Repair reads the manifest at inputPath, fixes it with opts and src, and
// writes the result. If outputPath is empty, it writes to inputPath with a
// ".fixed.xml" suffix. A manifest the fixer rejects is not an error: the
// reasons are in AfterReport and nothing is written.
func Repair(inputPath, outputPath string, opts fixer.Options, src symbols.Source, logger *slog.Logger) (*Result, error) {
	if outputPath == "" {
		outputPath = inputPath + ".fixed.xml"
	}
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := xmldom.ParseFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	logger.Debug("parsed manifest", "path", inputPath, "root", doc.Root.Name)

	before := report.NewReport()
	validate.Manifest(doc.Clone(), before, validate.Options{
		WarnUnknownElements: opts.WarnValidation,
		AllErrors:           true,
	})
	logger.Debug("validated original", "errors", before.ErrorCount(), "warnings", before.WarningCount())

	after := report.NewReport()
	res := &Result{BeforeReport: before, AfterReport: after}
	if !fixer.New(opts).Consume(doc, src, after) {
		logger.Info("manifest rejected", "path", inputPath, "errors", after.ErrorCount())
		return res, nil
	}
	res.Fixes = fixesFrom(after)

	if err := writeManifest(outputPath, doc); err != nil {
		return nil, fmt.Errorf("writing fixed manifest: %w", err)
	}
	res.Written = outputPath
	logger.Info("wrote fixed manifest", "path", outputPath, "fixes", len(res.Fixes))
	return res, nil
}

func fixesFrom(r *report.Report) []Fix {
	var fixes []Fix
	for _, m := range r.WithPrefix("FIX-") {
		fixes = append(fixes, Fix{
			CheckID:     m.CheckID,
			Description: m.Message,
			Location:    m.Location,
		})
	}
	return fixes
}
