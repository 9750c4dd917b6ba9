// Command manifestfuzz generates randomized application manifests with
// injected faults and, with --check, runs the fixer over them to confirm
// that each manifest is repaired or rejected the way its faults predict.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/adammathes/manifestfix/pkg/fixer"
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/validate"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// Fault describes a single mutation applied to a generated manifest.
type Fault struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Expect is the check ID the fixer must report, or empty when the fixer
	// is expected to repair the fault.
	Expect string `json:"expect,omitempty"`
}

// ManifestSpec describes the parameters used to generate a manifest.
type ManifestSpec struct {
	ID            int           `json:"id"`
	Package       string        `json:"package"`
	NumActivities int           `json:"num_activities"`
	Faults        []Fault       `json:"faults"`
	Options       fixer.Options `json:"options"`
	Filename      string        `json:"filename"`
}

// Rejected reports whether any fault should make the fixer fail.
func (s *ManifestSpec) Rejected() bool {
	for _, f := range s.Faults {
		if f.Expect != "" {
			return true
		}
	}
	return false
}

// faultFunc is a function that mutates a manifest builder to inject a fault.
type faultFunc struct {
	name        string
	description string
	expect      string
	apply       func(b *manifestBuilder, rng *rand.Rand)
	weight      int // relative probability weight
	excludes    []string
}

var allFaults = []faultFunc{
	// === Repairable faults ===
	{
		name:        "uses_sdk_after_application",
		description: "Place <uses-sdk> after <application>",
		weight:      4,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.usesSdk = true
			b.usesSdkLast = true
		},
	},
	{
		name:        "relative_class_names",
		description: "Name components relative to the package",
		weight:      4,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.relativeNames = true
		},
	},
	{
		name:        "missing_android_namespace",
		description: "Omit the android namespace declaration on <manifest>",
		weight:      3,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.noNamespace = true
		},
		excludes: []string{"android_prefix_taken"},
	},
	{
		name:        "android_prefix_taken",
		description: "Bind the android prefix to another URI",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.prefixTaken = true
		},
		excludes: []string{"missing_android_namespace"},
	},
	{
		name:        "foreign_namespace_element",
		description: "Add a tools: element with unknown children",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.toolsElement = true
		},
	},

	// === Root faults ===
	{
		name:        "wrong_root",
		description: "Use a root element other than <manifest>",
		expect:      "MAN-001",
		weight:      1,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.rootName = []string{"application", "Manifest", "root"}[rng.Intn(3)]
		},
		excludes: []string{"missing_package", "invalid_package"},
	},
	{
		name:        "missing_package",
		description: "Omit the package attribute",
		expect:      "MAN-002",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.omitPackage = true
		},
		excludes: []string{"wrong_root", "invalid_package"},
	},
	{
		name:        "invalid_package",
		description: "Use a package name that is not a valid package",
		expect:      "MAN-004",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.pkg = []string{"com", "com..example", "com.1example", "com.example.Class$1", "com.exa-mple"}[rng.Intn(5)]
		},
		excludes: []string{"wrong_root", "missing_package"},
	},

	// === Element faults ===
	{
		name:        "unexpected_element",
		description: "Add an element not allowed under <manifest>",
		expect:      "ELM-001",
		weight:      3,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			candidates := misplacedElements()
			b.unknownElement = candidates[rng.Intn(len(candidates))]
		},
	},
	{
		name:        "uses_feature_both",
		description: "Give <uses-feature> both android:name and android:glEsVersion",
		expect:      "FEA-001",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.feature = featureBoth
		},
		excludes: []string{"uses_feature_neither"},
	},
	{
		name:        "uses_feature_neither",
		description: "Give <uses-feature> neither android:name nor android:glEsVersion",
		expect:      "FEA-002",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.feature = featureNeither
		},
		excludes: []string{"uses_feature_both"},
	},
	{
		name:        "property_without_value",
		description: "Add a <property> with neither android:value nor android:resource",
		expect:      "PRP-001",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.badProperty = true
		},
	},
	{
		name:        "empty_uses_library_name",
		description: "Add a <uses-library> with an empty android:name",
		expect:      "NAM-002",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.emptyLibrary = true
		},
	},
	{
		name:        "deep_link_without_default",
		description: "Declare a deep link without the DEFAULT category",
		expect:      "LNK-001",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.deepLink = true
			b.deepLinkNoDefault = true
		},
	},
	{
		name:        "deep_link_relative_path",
		description: "Declare a deep link whose android:path lacks a leading slash",
		expect:      "LNK-002",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.deepLink = true
			b.deepLinkPath = "products"
		},
	},

	// === Type faults ===
	{
		name:        "bad_boolean",
		description: "Give a boolean attribute a non-boolean value",
		expect:      "TYP-001",
		weight:      2,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.exported = []string{"yes", "1", "maybe", "TRUE!"}[rng.Intn(4)]
		},
	},
	{
		name:        "bad_enum",
		description: "Give android:screenOrientation an unknown constant",
		expect:      "TYP-001",
		weight:      1,
		apply: func(b *manifestBuilder, rng *rand.Rand) {
			b.orientation = "sideways"
		},
	},
}

// misplacedElements lists names that are not allowed directly under
// <manifest>: everything <application> accepts that <manifest> does not,
// plus a few that are allowed nowhere.
func misplacedElements() []string {
	top := map[string]bool{}
	for _, name := range validate.AllowedChildren("manifest") {
		top[name] = true
	}
	names := []string{"beep", "intent-filter", "uses_sdk"}
	for _, name := range validate.AllowedChildren("manifest", "application") {
		if !top[name] {
			names = append(names, name)
		}
	}
	return names
}

type featureKind int

const (
	featureName featureKind = iota
	featureBoth
	featureNeither
)

// manifestBuilder holds the generation parameters for one manifest.
type manifestBuilder struct {
	rootName      string
	pkg           string
	omitPackage   bool
	noNamespace   bool
	prefixTaken   bool
	activities    int
	relativeNames bool

	usesSdk     bool
	usesSdkLast bool

	unknownElement    string
	toolsElement      bool
	feature           featureKind
	badProperty       bool
	emptyLibrary      bool
	deepLink          bool
	deepLinkNoDefault bool
	deepLinkPath      string
	exported          string
	orientation       string
}

func newBuilder(pkg string, activities int) *manifestBuilder {
	return &manifestBuilder{
		rootName:     "manifest",
		pkg:          pkg,
		activities:   activities,
		deepLinkPath: "/products",
		exported:     "true",
		orientation:  "portrait",
	}
}

func androidEl(name string, attrs ...string) *xmldom.Element {
	el := xmldom.NewElement("", name)
	for i := 0; i+1 < len(attrs); i += 2 {
		el.SetAttribute(xmldom.SchemaAndroid, attrs[i], attrs[i+1])
	}
	return el
}

func (b *manifestBuilder) className(simple string) string {
	if b.relativeNames {
		return "." + simple
	}
	return b.pkg + "." + simple
}

func (b *manifestBuilder) build() *xmldom.Document {
	root := xmldom.NewElement("", b.rootName)
	switch {
	case b.prefixTaken:
		root.NamespaceDecls = append(root.NamespaceDecls, xmldom.NamespaceDecl{Prefix: "android", URI: "http://schemas.android.com/apk/prv/res/android"})
	case !b.noNamespace:
		root.NamespaceDecls = append(root.NamespaceDecls, xmldom.NamespaceDecl{Prefix: "android", URI: xmldom.SchemaAndroid})
	}
	if !b.omitPackage {
		root.SetAttribute("", "package", b.pkg)
	}

	sdk := androidEl("uses-sdk", "minSdkVersion", "21")
	if b.usesSdk && !b.usesSdkLast {
		root.AppendChild(sdk)
	}
	root.AppendChild(androidEl("uses-permission", "name", "android.permission.INTERNET"))

	switch b.feature {
	case featureBoth:
		root.AppendChild(androidEl("uses-feature", "name", "android.hardware.camera", "glEsVersion", "0x00020000"))
	case featureNeither:
		root.AppendChild(androidEl("uses-feature", "required", "false"))
	default:
		root.AppendChild(androidEl("uses-feature", "name", "android.hardware.touchscreen"))
	}
	if b.unknownElement != "" {
		root.AppendChild(xmldom.NewElement("", b.unknownElement))
	}
	if b.toolsElement {
		root.NamespaceDecls = append(root.NamespaceDecls, xmldom.NamespaceDecl{Prefix: "tools", URI: xmldom.SchemaTools})
		tools := xmldom.NewElement(xmldom.SchemaTools, "ignore")
		tools.AppendChild(xmldom.NewElement("", "beep"))
		root.AppendChild(tools)
	}

	app := androidEl("application", "name", b.className("App"))
	if b.emptyLibrary {
		app.AppendChild(androidEl("uses-library", "name", ""))
	} else {
		app.AppendChild(androidEl("uses-library", "name", "org.apache.http.legacy"))
	}
	if b.badProperty {
		app.AppendChild(androidEl("property", "name", "com.example.flag"))
	} else {
		app.AppendChild(androidEl("property", "name", "com.example.flag", "value", "true"))
	}
	for i := 0; i < b.activities; i++ {
		act := androidEl("activity",
			"name", b.className(fmt.Sprintf("Activity%d", i)),
			"exported", b.exported,
			"screenOrientation", b.orientation)
		if i == 0 {
			act.AppendChild(b.launcherFilter())
			if b.deepLink {
				act.AppendChild(b.deepLinkFilter())
			}
		}
		app.AppendChild(act)
	}
	root.AppendChild(app)

	if b.usesSdk && b.usesSdkLast {
		root.AppendChild(sdk)
	}
	return &xmldom.Document{Root: root}
}

func (b *manifestBuilder) launcherFilter() *xmldom.Element {
	f := xmldom.NewElement("", "intent-filter")
	f.AppendChild(androidEl("action", "name", "android.intent.action.MAIN"))
	f.AppendChild(androidEl("category", "name", "android.intent.category.LAUNCHER"))
	return f
}

func (b *manifestBuilder) deepLinkFilter() *xmldom.Element {
	f := xmldom.NewElement("", "intent-filter")
	f.AppendChild(androidEl("action", "name", "android.intent.action.VIEW"))
	f.AppendChild(androidEl("category", "name", "android.intent.category.BROWSABLE"))
	if !b.deepLinkNoDefault {
		f.AppendChild(androidEl("category", "name", "android.intent.category.DEFAULT"))
	}
	f.AppendChild(androidEl("data", "scheme", "https", "host", "example.com", "path", b.deepLinkPath))
	return f
}

var packages = []string{"com.example.app", "org.sample.notes", "android", "io.test.shop_2"}

// randomOptions picks a fixer configuration. Rename targets are always valid
// so that option errors never mask document faults.
func randomOptions(rng *rand.Rand) fixer.Options {
	var o fixer.Options
	if rng.Float64() < 0.5 {
		o.MinSdkVersionDefault = []string{"14", "21", "26"}[rng.Intn(3)]
	}
	if rng.Float64() < 0.4 {
		o.TargetSdkVersionDefault = "34"
	}
	if rng.Float64() < 0.4 {
		o.VersionCodeDefault = fmt.Sprint(1 + rng.Intn(1000))
		o.ReplaceVersion = rng.Float64() < 0.5
	}
	if rng.Float64() < 0.3 {
		o.VersionNameDefault = "1.0"
	}
	if rng.Float64() < 0.3 {
		o.CompileSdkVersion = "34"
		o.CompileSdkVersionCodename = "14"
	}
	if rng.Float64() < 0.3 {
		o.RenameManifestPackage = "com.example.renamed"
	}
	o.DebugMode = rng.Float64() < 0.2
	o.NonUpdatableSystem = rng.Float64() < 0.2
	if rng.Float64() < 0.2 {
		o.FingerprintPrefixes = []string{"google/", "vendor/"}[:1+rng.Intn(2)]
	}
	return o
}

func generateManifest(id int, rng *rand.Rand) (*ManifestSpec, *xmldom.Document) {
	spec := &ManifestSpec{
		ID:            id,
		Package:       packages[rng.Intn(len(packages))],
		NumActivities: 1 + rng.Intn(4), // 1-4 activities
		Options:       randomOptions(rng),
	}
	b := newBuilder(spec.Package, spec.NumActivities)

	// Decide how many faults to inject: 0-3
	// 20% none, 40% one, 30% two, 10% three
	r := rng.Float64()
	var numFaults int
	switch {
	case r < 0.20:
		numFaults = 0
	case r < 0.60:
		numFaults = 1
	case r < 0.90:
		numFaults = 2
	default:
		numFaults = 3
	}

	usedFaults := map[string]bool{}
	for i := 0; i < numFaults; i++ {
		totalWeight := 0
		for _, f := range allFaults {
			if !usedFaults[f.name] {
				totalWeight += f.weight
			}
		}
		if totalWeight == 0 {
			break
		}

		pick := rng.Intn(totalWeight)
		cumulative := 0
		for _, f := range allFaults {
			if usedFaults[f.name] {
				continue
			}
			cumulative += f.weight
			if pick < cumulative {
				usedFaults[f.name] = true
				for _, x := range f.excludes {
					usedFaults[x] = true
				}
				f.apply(b, rng)
				spec.Faults = append(spec.Faults, Fault{Name: f.name, Description: f.description, Expect: f.expect})
				break
			}
		}
	}

	spec.Filename = fmt.Sprintf("manifest_%03d.xml", id)
	return spec, b.build()
}

// checkManifest runs the fixer on the manifest at path and returns every
// way the outcome differs from what spec predicts.
func checkManifest(path string, spec *ManifestSpec, src symbols.Source) []string {
	doc, err := xmldom.ParseFile(path)
	if err != nil {
		return []string{err.Error()}
	}
	r := report.NewReport()
	ok := fixer.New(spec.Options).Consume(doc, src, r)

	var problems []string
	if spec.Rejected() {
		if ok {
			return []string{"fixer accepted a manifest with faults " + faultNames(spec)}
		}
		for _, f := range spec.Faults {
			if f.Expect != "" && r.HasCheck(f.Expect) {
				return nil
			}
		}
		return []string{fmt.Sprintf("fixer rejected %s for an unexpected reason: %v", faultNames(spec), r.Problems())}
	}
	if !ok {
		return []string{fmt.Sprintf("fixer rejected a repairable manifest: %v", r.Problems())}
	}

	// uses-sdk precedes application
	root := doc.Root
	if app := root.FindChild("", "application"); app != nil {
		for _, sdk := range root.FindChildren("", "uses-sdk") {
			if root.IndexOf(sdk) > root.IndexOf(app) {
				problems = append(problems, "<uses-sdk> follows <application>")
			}
		}
	}

	// debug mode leaves a debuggable application
	if spec.Options.DebugMode && root.FindChild("", "application") != nil &&
		root.FindChildWithAttribute("", "application", xmldom.SchemaAndroid, "debuggable", "true") == nil {
		problems = append(problems, "debug mode left <application> without android:debuggable=\"true\"")
	}

	// A second pass changes nothing. Fingerprint prefixes are additive, so
	// they are left out of the rerun.
	again := spec.Options
	again.FingerprintPrefixes = nil
	second := doc.Clone()
	r2 := report.NewReport()
	if !fixer.New(again).Consume(second, src, r2) {
		problems = append(problems, fmt.Sprintf("second pass rejected the fixed manifest: %v", r2.Problems()))
	} else if second.String() != doc.String() {
		problems = append(problems, "second pass changed the manifest")
	}
	return problems
}

func faultNames(spec *ManifestSpec) string {
	names := make([]string, len(spec.Faults))
	for i, f := range spec.Faults {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

func main() {
	var (
		count   int
		outDir  string
		seed    int64
		check   bool
		verbose bool
	)
	pflag.IntVarP(&count, "count", "n", 100, "number of manifests to generate")
	pflag.StringVarP(&outDir, "out", "o", "testdata/synthetic", "output directory")
	pflag.Int64Var(&seed, "seed", 42, "random seed")
	pflag.BoolVar(&check, "check", false, "run the fixer on each manifest and verify the outcome")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "log every manifest")
	pflag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		logger.Error("creating output directory", "dir", outDir, "error", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(seed))
	src := symbols.Framework()

	var specs []ManifestSpec
	failures := 0
	for i := 1; i <= count; i++ {
		spec, doc := generateManifest(i, rng)
		path := filepath.Join(outDir, spec.Filename)
		if err := xmldom.WriteFile(path, doc); err != nil {
			logger.Error("writing manifest", "error", err)
			os.Exit(1)
		}
		specs = append(specs, *spec)

		faults := "valid (no faults)"
		if len(spec.Faults) > 0 {
			faults = faultNames(spec)
		}
		logger.Debug("generated", "file", spec.Filename, "package", spec.Package, "activities", spec.NumActivities, "faults", faults)

		if check {
			for _, p := range checkManifest(path, spec, src) {
				logger.Error("check failed", "file", spec.Filename, "faults", faults, "problem", p)
				failures++
			}
		}
	}

	specPath := filepath.Join(outDir, "manifests.json")
	specData, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		logger.Error("encoding specs", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(specPath, specData, 0o644); err != nil {
		logger.Error("writing specs", "error", err)
		os.Exit(1)
	}
	logger.Info("generated manifests", "count", count, "dir", outDir, "specs", specPath)

	if failures > 0 {
		logger.Error("checks failed", "failures", failures)
		os.Exit(1)
	}
}
