package symbols

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/adammathes/manifestfix/pkg/resvalue"
)

// File is the on-disk form of a symbol table, in YAML or JSONC:
//
//	package: com.example.app
//	attributes:
//	  - name: android:attr/screenOrientation
//	    id: 0x0101001e
//	    format: enum
//	    values: {landscape: 0, portrait: 1}
//	resources:
//	  - name: string/app_name
//	    id: 0x7f010000
type File struct {
	Package    string          `yaml:"package" json:"package"`
	Attributes []AttributeSpec `yaml:"attributes" json:"attributes"`
	Unprefixed []AttributeSpec `yaml:"unprefixed" json:"unprefixed"`
	Resources  []ResourceSpec  `yaml:"resources" json:"resources"`
}

// AttributeSpec is one attribute definition in a File.
type AttributeSpec struct {
	Name   string            `yaml:"name" json:"name"`
	ID     Number            `yaml:"id" json:"id"`
	Format string            `yaml:"format" json:"format"`
	Values map[string]Number `yaml:"values" json:"values"`
}

// ResourceSpec is one resource in a File.
type ResourceSpec struct {
	Name string `yaml:"name" json:"name"`
	ID   Number `yaml:"id" json:"id"`
}

// Number is an integer written in decimal or 0x hex, bare or quoted. JSON has
// no hex literals, so JSONC tables quote them.
type Number uint32

func parseNumber(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", s)
		}
		return Number(uint32(int32(v))), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return Number(v), nil
}

// UnmarshalYAML accepts any scalar form of a number.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	v, err := parseNumber(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*n = v
	return nil
}

// UnmarshalJSON accepts a JSON number or a string holding one.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	v, err := parseNumber(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Parse decodes a symbol table. jsonFormat selects JSONC instead of YAML.
func Parse(data []byte, jsonFormat bool) (*StaticSource, error) {
	var f File
	if jsonFormat {
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, fmt.Errorf("parsing symbol table: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing symbol table: %w", err)
		}
	}
	return f.Build()
}

// LoadFile reads a symbol table. Files ending in .json or .jsonc are JSONC;
// everything else is YAML.
func LoadFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	src, err := Parse(data, ext == ".json" || ext == ".jsonc")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Build turns the decoded file into a source.
func (f *File) Build() (*StaticSource, error) {
	b := NewBuilder().SetPackage(f.Package)
	for _, a := range f.Attributes {
		mask, syms, err := a.compile()
		if err != nil {
			return nil, err
		}
		b.AddAttribute(a.Name, resvalue.ResourceID(a.ID), mask, syms...)
	}
	for _, a := range f.Unprefixed {
		mask, syms, err := a.compile()
		if err != nil {
			return nil, err
		}
		b.AddUnprefixedAttribute(a.Name, mask, syms...)
	}
	for _, r := range f.Resources {
		b.AddResource(r.Name, resvalue.ResourceID(r.ID))
	}
	return b.Build()
}

func (a AttributeSpec) compile() (resvalue.TypeMask, []Symbol, error) {
	format := a.Format
	if format == "" {
		format = "any"
	}
	mask, err := resvalue.ParseTypeMask(format)
	if err != nil {
		return 0, nil, fmt.Errorf("attribute %s: %w", a.Name, err)
	}
	if len(a.Values) > 0 && !mask.Has(resvalue.TypeEnum|resvalue.TypeFlags) {
		return 0, nil, fmt.Errorf("attribute %s: values given but format %q is neither enum nor flags", a.Name, format)
	}
	names := make([]string, 0, len(a.Values))
	for name := range a.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	syms := make([]Symbol, 0, len(names))
	for _, name := range names {
		syms = append(syms, Symbol{Name: name, Value: uint32(a.Values[name])})
	}
	return mask, syms, nil
}

//go:embed framework.yaml
var frameworkYAML []byte

var framework = sync.OnceValue(func() *StaticSource {
	src, err := Parse(frameworkYAML, false)
	if err != nil {
		panic("symbols: embedded framework table: " + err.Error())
	}
	return src
})

// Framework returns the built-in table of platform manifest attributes. It
// carries types and constants only, no resource IDs.
func Framework() *StaticSource {
	return framework()
}
