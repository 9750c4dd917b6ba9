package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/adammathes/manifestfix/pkg/doctor"
	"github.com/adammathes/manifestfix/pkg/fixer"
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/validate"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code: 0 success, 1 manifest errors, 2 fatal.
func run(args []string) int {
	var (
		configPath   string
		symbolsPath  string
		outputPath   string
		validateOnly bool
		jsonOutput   bool
		verbose      bool
		showVersion  bool
		opts         fixer.Options
	)

	fs := pflag.NewFlagSet("manifestfix", pflag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "options file (.yaml, .yml, .json or .jsonc)")
	fs.StringVar(&symbolsPath, "symbols", "", "symbol table file (default: built-in framework attributes)")
	fs.StringVarP(&outputPath, "output", "o", "", "output path (default: <input>.fixed.xml)")
	fs.BoolVar(&validateOnly, "validate-only", false, "report problems without fixing or writing")
	fs.BoolVar(&jsonOutput, "json", false, "write the report as JSON to stdout")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log progress and list applied fixes")
	fs.BoolVar(&showVersion, "version", false, "print the version and exit")
	fixer.BindFlags(fs, &opts)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: manifestfix [flags] <AndroidManifest.xml>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if showVersion {
		fmt.Printf("manifestfix %s\n", version)
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	input := fs.Arg(0)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if configPath != "" {
		fileOpts, err := fixer.LoadOptions(configPath)
		if err != nil {
			logger.Error("loading options", "error", err)
			return 2
		}
		if err := fixer.ApplyFlags(fileOpts, fs); err != nil {
			logger.Error("applying flags", "error", err)
			return 2
		}
		opts = *fileOpts
	}

	var src symbols.Source = symbols.Framework()
	if symbolsPath != "" {
		s, err := symbols.LoadFile(symbolsPath)
		if err != nil {
			logger.Error("loading symbols", "error", err)
			return 2
		}
		logger.Debug("loaded symbols", "path", symbolsPath, "package", s.Package(), "count", s.Len())
		src = s
	}

	var r *report.Report
	if validateOnly {
		doc, err := xmldom.ParseFile(input)
		if err != nil {
			logger.Error("reading manifest", "error", err)
			return 2
		}
		r = report.NewReport()
		opts.Validate(r)
		validate.Manifest(doc, r, validate.Options{
			WarnUnknownElements: opts.WarnValidation,
			AllErrors:           true,
		})
	} else {
		res, err := doctor.Repair(input, outputPath, opts, src, logger)
		if err != nil {
			logger.Error("repair failed", "error", err)
			return 2
		}
		r = res.AfterReport
	}

	if jsonOutput {
		if err := r.WriteJSON(os.Stdout, input); err != nil {
			logger.Error("writing JSON", "error", err)
			return 2
		}
	} else {
		r.WriteText(os.Stderr, verbose)
	}

	if r.FatalCount() > 0 {
		return 2
	}
	if r.ErrorCount() > 0 {
		return 1
	}
	return 0
}
