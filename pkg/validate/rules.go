package validate

import "sort"

// rule lists the checks for one element and the child elements allowed
// under it. A no-namespace child missing from children is unexpected.
type rule struct {
	checks   []check
	children map[string]*rule
}

func leaf(checks ...check) *rule {
	return &rule{checks: checks}
}

func (ru *rule) with(children map[string]*rule) *rule {
	ru.children = children
	return ru
}

var manifestRule = buildRules()

func buildRules() *rule {
	metaOnly := map[string]*rule{"meta-data": leaf()}
	certs := map[string]*rule{"additional-certificate": leaf()}
	permissionLists := map[string]*rule{
		"deny-permission":  leaf(),
		"allow-permission": leaf(),
	}

	intentFilter := leaf(checkDeepLink).with(map[string]*rule{
		"action":   leaf(checkNameNotEmpty),
		"category": leaf(checkNameNotEmpty),
		"data":     leaf(),
	})
	property := leaf(checkProperty)

	componentChildren := func(extra map[string]*rule) map[string]*rule {
		m := map[string]*rule{
			"intent-filter": intentFilter,
			"preferred":     intentFilter,
			"meta-data":     leaf(),
			"property":      property,
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	component := func(extra map[string]*rule) *rule {
		return leaf(checkOptionalClassName).with(componentChildren(extra))
	}

	application := leaf(checkOptionalClassName).with(map[string]*rule{
		"uses-library":        leaf(checkNameNotEmpty),
		"uses-native-library": leaf(checkNameNotEmpty),
		"library":             leaf(checkNameNotEmpty),
		"profileable":         leaf(),
		"meta-data":           leaf(),
		"property":            property,
		"static-library":      leaf(checkNameIsJavaPackage, requireAttrs("version")),
		"uses-static-library": leaf(checkNameIsJavaPackage, requireAttrs("version", "certDigest")).with(certs),
		"sdk-library":         leaf(checkNameIsJavaPackage, requireAttrs("versionMajor")),
		"uses-sdk-library":    leaf(checkNameIsJavaPackage, requireAttrs("versionMajor", "certDigest")).with(certs),
		"uses-package":        leaf(checkNameIsJavaPackage).with(certs),
		"processes": leaf().with(map[string]*rule{
			"deny-permission":  leaf(),
			"allow-permission": leaf(),
			"process":          leaf().with(permissionLists),
		}),
		"activity":            component(map[string]*rule{"layout": leaf()}),
		"activity-alias":      component(nil),
		"service":             component(nil),
		"receiver":            component(nil),
		"provider":            component(map[string]*rule{"grant-uri-permission": leaf(), "path-permission": leaf()}),
		"apex-system-service": leaf(),
	})

	return leaf(checkSplitName).with(map[string]*rule{
		"uses-sdk":            leaf().with(map[string]*rule{"extension-sdk": leaf()}),
		"instrumentation":     leaf(checkOptionalClassName).with(metaOnly),
		"attribution":         leaf().with(map[string]*rule{"inherit-from": leaf()}),
		"original-package":    leaf(),
		"overlay":             leaf(),
		"protected-broadcast": leaf(),
		"adopt-permissions":   leaf(),
		"uses-permission": leaf().with(map[string]*rule{
			"required-feature":     leaf(checkNameNotEmpty),
			"required-not-feature": leaf(checkNameNotEmpty),
		}),
		"uses-permission-sdk-23": leaf(),
		"permission":             leaf().with(metaOnly),
		"permission-tree":        leaf(),
		"permission-group":       leaf(),
		"uses-configuration":     leaf(),
		"supports-screens":       leaf(),
		"uses-feature":           leaf(checkUsesFeature),
		"feature-group":          leaf().with(map[string]*rule{"uses-feature": leaf(checkUsesFeature)}),
		"compatible-screens":     leaf().with(map[string]*rule{"screen": leaf()}),
		"supports-gl-texture":    leaf(),
		"restrict-update":        leaf(),
		"install-constraints":    leaf().with(map[string]*rule{"fingerprint-prefix": leaf()}),
		"package-verifier":       leaf(),
		"meta-data":              leaf(),
		"uses-split":             leaf(checkNameIsJavaPackage),
		"queries": leaf().with(map[string]*rule{
			"package":  leaf(checkNameIsJavaPackage),
			"intent":   intentFilter,
			"provider": leaf(requireAttrs("authorities")),
		}),
		"key-sets": leaf().with(map[string]*rule{
			"key-set":         leaf().with(map[string]*rule{"public-key": leaf()}),
			"upgrade-key-set": leaf(),
		}),
		"application": application,
	})
}

// AllowedChildren returns the element names permitted directly under the
// element at path, e.g. AllowedChildren("manifest", "application"). It
// returns nil for an unknown path.
func AllowedChildren(path ...string) []string {
	if len(path) == 0 || path[0] != "manifest" {
		return nil
	}
	ru := manifestRule
	for _, name := range path[1:] {
		next, ok := ru.children[name]
		if !ok {
			return nil
		}
		ru = next
	}
	names := make([]string, 0, len(ru.children))
	for name := range ru.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
