package doctor

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adammathes/manifestfix/pkg/fixer"
	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

const brokenManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest package="com.example.app">
  <application android:name=".App" xmlns:android="http://schemas.android.com/apk/res/android">
    <activity android:name=".MainActivity"/>
  </application>
  <uses-sdk/>
</manifest>
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTestManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AndroidManifest.xml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDoctorWritesFixedManifest(t *testing.T) {
	input := writeTestManifest(t, brokenManifest)
	opts := fixer.Options{
		MinSdkVersionDefault:  "21",
		VersionCodeDefault:    "3",
		RenameManifestPackage: "com.example.staging",
	}

	res, err := Repair(input, "", opts, symbols.Framework(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("repair rejected the manifest: %v", res.AfterReport.Messages)
	}
	if res.Written != input+".fixed.xml" {
		t.Errorf("Written = %q", res.Written)
	}

	fixed, err := xmldom.ParseFile(res.Written)
	if err != nil {
		t.Fatal(err)
	}
	root := fixed.Root
	if v, _ := root.AttributeValue("", "package"); v != "com.example.staging" {
		t.Errorf("package = %q", v)
	}
	if v, _ := root.AttributeValue(xmldom.SchemaAndroid, "versionCode"); v != "3" {
		t.Errorf("versionCode = %q", v)
	}
	var names []string
	for _, c := range root.ChildElements() {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "uses-sdk,application" {
		t.Errorf("children = %v", names)
	}
	act := root.FindChild("", "application").FindChild("", "activity")
	if v, _ := act.AttributeValue(xmldom.SchemaAndroid, "name"); v != "com.example.app.MainActivity" {
		t.Errorf("activity name = %q", v)
	}

	for _, id := range []string{"FIX-PKG", "FIX-QUAL", "FIX-SDK", "FIX-ORDER", "FIX-VER"} {
		found := false
		for _, f := range res.Fixes {
			if f.CheckID == id {
				found = true
			}
		}
		if !found {
			t.Errorf("missing fix %s in %+v", id, res.Fixes)
		}
	}
	if len(res.Fixes) == 0 || res.Fixes[0].Location == "" {
		t.Errorf("fixes carry no location: %+v", res.Fixes)
	}
}

func TestDoctorBeforeReportSeesOriginal(t *testing.T) {
	input := writeTestManifest(t, `<manifest package="com.example.app">
  <uses-feature/>
  <beep/>
</manifest>`)

	res, err := Repair(input, "", fixer.Options{}, symbols.Framework(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	// The before report keeps going past the first error.
	if !res.BeforeReport.HasCheck("FEA-002") || !res.BeforeReport.HasCheck("ELM-001") {
		t.Errorf("before report = %v", res.BeforeReport.Messages)
	}
	if res.OK() || res.Written != "" {
		t.Errorf("rejected manifest was written to %q", res.Written)
	}
	if _, err := os.Stat(input + ".fixed.xml"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output exists: %v", err)
	}
}

func TestDoctorWarnValidation(t *testing.T) {
	input := writeTestManifest(t, `<manifest package="com.example.app"><beep/></manifest>`)
	output := filepath.Join(filepath.Dir(input), "out.xml")

	res, err := Repair(input, output, fixer.Options{WarnValidation: true}, symbols.Framework(), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Written != output {
		t.Fatalf("result = %+v, messages %v", res, res.AfterReport.Messages)
	}
	if res.BeforeReport.ErrorCount() != 0 || res.BeforeReport.WarningCount() != 1 {
		t.Errorf("before report = %v", res.BeforeReport.Messages)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<beep")) {
		t.Errorf("unexpected element dropped:\n%s", data)
	}
}

func TestDoctorInputErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Repair(filepath.Join(dir, "missing.xml"), "", fixer.Options{}, symbols.Framework(), nil); err == nil {
		t.Error("missing input: expected error")
	}

	bad := writeTestManifest(t, "<manifest package=")
	if _, err := Repair(bad, "", fixer.Options{}, symbols.Framework(), nil); err == nil {
		t.Error("malformed input: expected error")
	}

	empty := writeTestManifest(t, "<?xml version=\"1.0\"?>\n")
	_, err := Repair(empty, "", fixer.Options{}, symbols.Framework(), nil)
	if !errors.Is(err, xmldom.ErrNoRoot) {
		t.Errorf("empty input: err = %v", err)
	}
}

func TestDoctorOutputIsStable(t *testing.T) {
	input := writeTestManifest(t, brokenManifest)
	opts := fixer.Options{MinSdkVersionDefault: "21"}

	first, err := Repair(input, "", opts, symbols.Framework(), discardLogger())
	if err != nil || !first.OK() {
		t.Fatalf("first pass: %v %v", err, first)
	}
	second, err := Repair(first.Written, filepath.Join(t.TempDir(), "again.xml"), opts, symbols.Framework(), discardLogger())
	if err != nil || !second.OK() {
		t.Fatalf("second pass: %v %v", err, second)
	}
	a, _ := os.ReadFile(first.Written)
	b, _ := os.ReadFile(second.Written)
	if !bytes.Equal(a, b) {
		t.Errorf("second pass changed the output:\n%s\n---\n%s", a, b)
	}
	if len(second.Fixes) != 0 {
		t.Errorf("second pass applied fixes: %+v", second.Fixes)
	}
}
