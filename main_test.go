package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.xml", `<manifest package="com.example.app"><application/></manifest>`)
	bad := writeFile(t, dir, "bad.xml", `<manifest package="com.example.app"><beep/></manifest>`)
	broken := writeFile(t, dir, "broken.xml", `<manifest`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"--version"}, 0},
		{"no input", nil, 2},
		{"valid", []string{good, "-o", filepath.Join(dir, "out.xml")}, 0},
		{"rejected", []string{bad}, 1},
		{"warn only", []string{"--warn-manifest-validation", bad, "-o", filepath.Join(dir, "out2.xml")}, 0},
		{"validate only", []string{"--validate-only", bad}, 1},
		{"validate only bad rename", []string{"--validate-only", "--rename-manifest-package", "com..x", good}, 1},
		{"malformed", []string{broken}, 2},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), good}, 2},
		{"unknown flag", []string{"--frobnicate", good}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "AndroidManifest.xml", `<manifest package="com.example.app"/>`)
	config := writeFile(t, dir, "fix.yaml", "min_sdk_version: \"14\"\nversion_name: \"1.0\"\n")
	out := filepath.Join(dir, "out.xml")

	if code := run([]string{"--config", config, "--min-sdk-version", "21", "-o", out, input}); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `android:minSdkVersion="21"`) || !strings.Contains(s, `android:versionName="1.0"`) {
		t.Errorf("output:\n%s", s)
	}
}
