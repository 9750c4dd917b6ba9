package doctor

import (
	"os"
	"path/filepath"

	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// writeManifest encodes doc next to path and renames it into place, so a
// failed write never leaves a truncated manifest behind.
func writeManifest(path string, doc *xmldom.Document) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".manifestfix-*.xml")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := xmldom.Encode(f, doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
