package fixer

import (
	"fmt"

	"github.com/spf13/pflag"
)

// BindFlags registers the fixer options on fs, writing parsed values into o.
func BindFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVar(&o.MinSdkVersionDefault, "min-sdk-version", o.MinSdkVersionDefault, "default minSdkVersion for <uses-sdk>")
	fs.StringVar(&o.TargetSdkVersionDefault, "target-sdk-version", o.TargetSdkVersionDefault, "default targetSdkVersion for <uses-sdk>")
	fs.StringVar(&o.VersionCodeDefault, "version-code", o.VersionCodeDefault, "default android:versionCode")
	fs.StringVar(&o.VersionCodeMajorDefault, "version-code-major", o.VersionCodeMajorDefault, "default android:versionCodeMajor")
	fs.StringVar(&o.VersionNameDefault, "version-name", o.VersionNameDefault, "default android:versionName")
	fs.StringVar(&o.RevisionCodeDefault, "revision-code", o.RevisionCodeDefault, "default android:revisionCode")
	fs.BoolVar(&o.ReplaceVersion, "replace-version", o.ReplaceVersion, "overwrite version attributes already in the manifest with the configured defaults")
	fs.StringVar(&o.CompileSdkVersion, "compile-sdk-version-code", o.CompileSdkVersion, "value for android:compileSdkVersion and platformBuildVersionCode")
	fs.StringVar(&o.CompileSdkVersionCodename, "compile-sdk-version-name", o.CompileSdkVersionCodename, "value for android:compileSdkVersionCodename and platformBuildVersionName")
	fs.BoolVar(&o.NoCompileSdkMetadata, "no-compile-sdk-metadata", o.NoCompileSdkMetadata, "do not write compile SDK metadata")
	fs.StringVar(&o.RenameManifestPackage, "rename-manifest-package", o.RenameManifestPackage, "rename the manifest package")
	fs.StringVar(&o.RenameInstrumentationTargetPackage, "rename-instrumentation-target-package", o.RenameInstrumentationTargetPackage, "rename the targetPackage of <instrumentation>")
	fs.StringVar(&o.RenameOverlayTargetPackage, "rename-overlay-target-package", o.RenameOverlayTargetPackage, "rename the targetPackage of <overlay>")
	fs.StringVar(&o.RenameOverlayCategory, "rename-overlay-category", o.RenameOverlayCategory, "set the category of <overlay>")
	fs.BoolVar(&o.DebugMode, "debug-mode", o.DebugMode, "force android:debuggable=\"true\" on <application>")
	fs.BoolVar(&o.WarnValidation, "warn-manifest-validation", o.WarnValidation, "treat unexpected elements as warnings")
	fs.BoolVar(&o.NonUpdatableSystem, "non-updatable-system", o.NonUpdatableSystem, "mark the package updatableSystem=\"false\" when it has no version code")
	fs.StringArrayVar(&o.FingerprintPrefixes, "fingerprint-prefix", o.FingerprintPrefixes, "add an install-constraints fingerprint prefix (repeatable)")
}

// ApplyFlags copies every fixer flag that was set on fs into dst. Use it to
// let the command line override options loaded from a file.
func ApplyFlags(dst *Options, fs *pflag.FlagSet) error {
	target := pflag.NewFlagSet("options", pflag.ContinueOnError)
	BindFlags(target, dst)

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		t := target.Lookup(f.Name)
		if t == nil {
			return
		}
		if src, ok := f.Value.(pflag.SliceValue); ok {
			err = t.Value.(pflag.SliceValue).Replace(src.GetSlice())
			return
		}
		if serr := target.Set(f.Name, f.Value.String()); serr != nil {
			err = fmt.Errorf("--%s: %w", f.Name, serr)
		}
	})
	return err
}
