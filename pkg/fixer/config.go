package fixer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ParseOptions decodes an options file. JSON input may carry comments and
// trailing commas.
func ParseOptions(data []byte, jsonFormat bool) (*Options, error) {
	var o Options
	if jsonFormat {
		if err := json.Unmarshal(jsonc.ToJSON(data), &o); err != nil {
			return nil, fmt.Errorf("parsing options: %w", err)
		}
		return &o, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing options: %w", err)
	}
	return &o, nil
}

// LoadOptions reads options from a YAML (.yaml, .yml) or JSONC (.json,
// .jsonc) file.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var jsonFormat bool
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		jsonFormat = true
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%s: unsupported options format (want .yaml, .yml, .json or .jsonc)", path)
	}
	o, err := ParseOptions(data, jsonFormat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}
