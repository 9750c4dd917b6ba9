package fixer

import (
	"github.com/adammathes/manifestfix/pkg/report"
	"github.com/adammathes/manifestfix/pkg/validate"
)

// Options configures a fix pass. An empty string means the value is not
// configured.
type Options struct {
	// Defaults for uses-sdk. Inserted only when the attribute is absent.
	MinSdkVersionDefault    string `yaml:"min_sdk_version" json:"min_sdk_version"`
	TargetSdkVersionDefault string `yaml:"target_sdk_version" json:"target_sdk_version"`

	// Defaults for the version family on <manifest>. With ReplaceVersion
	// they also overwrite values already present.
	VersionNameDefault      string `yaml:"version_name" json:"version_name"`
	VersionCodeDefault      string `yaml:"version_code" json:"version_code"`
	VersionCodeMajorDefault string `yaml:"version_code_major" json:"version_code_major"`
	RevisionCodeDefault     string `yaml:"revision_code" json:"revision_code"`
	ReplaceVersion          bool   `yaml:"replace_version" json:"replace_version"`

	// Compile SDK metadata, always overwritten unless NoCompileSdkMetadata.
	CompileSdkVersion         string `yaml:"compile_sdk_version_code" json:"compile_sdk_version_code"`
	CompileSdkVersionCodename string `yaml:"compile_sdk_version_name" json:"compile_sdk_version_name"`
	NoCompileSdkMetadata      bool   `yaml:"no_compile_sdk_metadata" json:"no_compile_sdk_metadata"`

	RenameManifestPackage              string `yaml:"rename_manifest_package" json:"rename_manifest_package"`
	RenameInstrumentationTargetPackage string `yaml:"rename_instrumentation_target_package" json:"rename_instrumentation_target_package"`
	RenameOverlayTargetPackage         string `yaml:"rename_overlay_target_package" json:"rename_overlay_target_package"`
	RenameOverlayCategory              string `yaml:"rename_overlay_category" json:"rename_overlay_category"`

	// NonUpdatableSystem marks the package updatableSystem="false" when it
	// ends up without a version code.
	NonUpdatableSystem bool `yaml:"non_updatable_system" json:"non_updatable_system"`

	// DebugMode forces android:debuggable="true" on <application>.
	DebugMode bool `yaml:"debug_mode" json:"debug_mode"`

	// WarnValidation reports unexpected elements as warnings.
	WarnValidation bool `yaml:"warn_manifest_validation" json:"warn_manifest_validation"`

	FingerprintPrefixes []string `yaml:"fingerprint_prefixes" json:"fingerprint_prefixes"`
}

// Validate reports rename targets that are not Java package names. It
// returns false if any are found.
func (o *Options) Validate(r *report.Report) bool {
	ok := true
	for _, opt := range []struct{ flag, value string }{
		{"rename-manifest-package", o.RenameManifestPackage},
		{"rename-instrumentation-target-package", o.RenameInstrumentationTargetPackage},
		{"rename-overlay-target-package", o.RenameOverlayTargetPackage},
	} {
		if opt.value == "" || validate.IsJavaPackageName(opt.value) {
			continue
		}
		// OPT-001: rename targets must be package names
		r.Add(report.Error, "OPT-001", "invalid --"+opt.flag+" value '"+opt.value+"': not a valid Java package name")
		ok = false
	}
	return ok
}

// versionDefaults pairs each version attribute with its configured default.
func (o *Options) versionDefaults() []attrDefault {
	return []attrDefault{
		{"versionName", o.VersionNameDefault},
		{"versionCode", o.VersionCodeDefault},
		{"versionCodeMajor", o.VersionCodeMajorDefault},
		{"revisionCode", o.RevisionCodeDefault},
	}
}

type attrDefault struct {
	name, value string
}
