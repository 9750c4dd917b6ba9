package main

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/adammathes/manifestfix/pkg/symbols"
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

func TestGeneratedManifests(t *testing.T) {
	dir := t.TempDir()
	rng := rand.New(rand.NewSource(7))
	src := symbols.Framework()

	rejected := 0
	for i := 1; i <= 300; i++ {
		spec, doc := generateManifest(i, rng)
		path := filepath.Join(dir, spec.Filename)
		if err := xmldom.WriteFile(path, doc); err != nil {
			t.Fatal(err)
		}
		if spec.Rejected() {
			rejected++
		}
		for _, p := range checkManifest(path, spec, src) {
			t.Errorf("%s [%s]: %s", spec.Filename, faultNames(spec), p)
		}
	}
	if rejected == 0 || rejected == 300 {
		t.Errorf("fault mix is degenerate: %d of 300 rejected", rejected)
	}
}

func TestMisplacedElements(t *testing.T) {
	names := misplacedElements()
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for _, want := range []string{"beep", "activity", "service", "uses-library"} {
		if !seen[want] {
			t.Errorf("misplaced elements %v lack %s", names, want)
		}
	}
	for _, allowed := range []string{"application", "uses-sdk", "meta-data"} {
		if seen[allowed] {
			t.Errorf("%s is allowed under <manifest> but listed as misplaced", allowed)
		}
	}
}

func TestFaultTable(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range allFaults {
		if seen[f.name] {
			t.Errorf("duplicate fault %s", f.name)
		}
		seen[f.name] = true
		if f.weight <= 0 {
			t.Errorf("fault %s has weight %d", f.name, f.weight)
		}
	}
	for _, f := range allFaults {
		for _, x := range f.excludes {
			if !seen[x] {
				t.Errorf("fault %s excludes unknown fault %s", f.name, x)
			}
		}
	}
}
