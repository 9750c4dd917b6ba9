package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCountsAndValidity(t *testing.T) {
	r := NewReport()
	if !r.IsValid() {
		t.Error("empty report should be valid")
	}
	r.Add(Info, "FIX-SDK", "added uses-sdk")
	r.AddWithLocation(Warning, "ELM-001", "unexpected element <foo>", Location("AndroidManifest.xml", 7))
	if !r.IsValid() {
		t.Error("warnings alone should not invalidate")
	}
	r.Add(Error, "MAN-004", "invalid package name")
	if r.IsValid() || r.ErrorCount() != 1 || r.WarningCount() != 1 || r.InfoCount() != 1 {
		t.Errorf("counts wrong: %+v", r.Messages)
	}
	if !r.HasCheck("ELM-001") || r.HasCheck("ELM-002") {
		t.Error("HasCheck wrong")
	}
	if len(r.WithPrefix("FIX-")) != 1 || len(r.Problems()) != 2 {
		t.Error("filters wrong")
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		source string
		line   int
		want   string
	}{
		{"a.xml", 3, "a.xml:3"},
		{"a.xml", 0, "a.xml"},
		{"", 4, "line 4"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		if got := Location(tt.source, tt.line); got != tt.want {
			t.Errorf("Location(%q, %d) = %q, want %q", tt.source, tt.line, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	r := NewReport()
	r.Add(Info, "FIX-NS", "declared xmlns:android")
	var buf bytes.Buffer
	r.WriteText(&buf, false)
	if strings.Contains(buf.String(), "FIX-NS") {
		t.Error("INFO written without verbose")
	}
	if !strings.Contains(buf.String(), "No errors or warnings detected.") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	r.AddWithLocation(Error, "FEA-001", "uses-feature has both name and glEsVersion", "m.xml:4")
	r.WriteText(&buf, true)
	out := buf.String()
	if !strings.Contains(out, "INFO(FIX-NS): declared xmlns:android") {
		t.Errorf("verbose output missing INFO: %q", out)
	}
	if !strings.Contains(out, "ERROR(FEA-001): uses-feature has both name and glEsVersion [m.xml:4]") {
		t.Errorf("missing error line: %q", out)
	}
	if !strings.Contains(out, "Errors: 1, Warnings: 0, Fatal: 0") {
		t.Errorf("missing summary: %q", out)
	}
}

func TestWriteJSON(t *testing.T) {
	r := NewReport()
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf, "m.xml"); err != nil {
		t.Fatal(err)
	}
	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Valid || out.Messages == nil || out.Source != "m.xml" {
		t.Errorf("empty report JSON = %+v", out)
	}

	r.Add(Info, "FIX-PKG", "renamed package")
	r.Add(Error, "TYP-001", "bad value")
	buf.Reset()
	if err := r.WriteJSON(&buf, "m.xml"); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Valid || out.ErrorCount != 1 || out.FixCount != 1 || len(out.Messages) != 2 {
		t.Errorf("JSON = %+v", out)
	}
}
