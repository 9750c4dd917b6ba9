package validate

import (
	"strings"
	"unicode"
)

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_', r == '$':
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func javaSegments(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !isJavaIdentifier(p) {
			return 0, false
		}
	}
	return len(parts), true
}

// IsJavaClassName reports whether s is a fully qualified Java class name:
// at least two dot-separated identifiers.
func IsJavaClassName(s string) bool {
	n, ok := javaSegments(s)
	return ok && n >= 2
}

// IsJavaPackageName reports whether s is one or more dot-separated Java
// identifiers.
func IsJavaPackageName(s string) bool {
	n, ok := javaSegments(s)
	return ok && n >= 1
}

// isAndroidName matches [a-zA-Z][a-zA-Z0-9_]*.
func isAndroidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}

func androidSegments(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if !isAndroidName(p) {
			return 0, false
		}
	}
	return len(parts), true
}

// IsAndroidPackageName reports whether s can name an application package.
// Packages need at least two segments, except the platform's own "android".
func IsAndroidPackageName(s string) bool {
	if s == "android" {
		return true
	}
	n, ok := androidSegments(s)
	return ok && n >= 2
}

// IsAndroidSplitName reports whether s can name a split.
func IsAndroidSplitName(s string) bool {
	_, ok := androidSegments(s)
	return ok
}

// FullyQualify resolves a class name relative to pkg. Only names starting
// with "." are relative.
func FullyQualify(pkg, name string) (string, bool) {
	if !strings.HasPrefix(name, ".") {
		return name, false
	}
	return pkg + name, true
}

// ResolveClassName returns the class a component name refers to. A name
// that is already a Java class name stands on its own; anything else is
// taken relative to pkg, with or without its leading dot.
func ResolveClassName(pkg, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if IsJavaClassName(name) {
		return name, true
	}
	if pkg == "" {
		return "", false
	}
	full := pkg + name
	if name[0] != '.' {
		full = pkg + "." + name
	}
	return full, IsJavaClassName(full)
}
