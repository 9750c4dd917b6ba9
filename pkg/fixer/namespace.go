package fixer

import (
	"strconv"

	"github.com/adammathes/manifestfix/pkg/xmldom"
)

const (
	androidPrefix = "android"

	// maxPrefixSuffix bounds the search for a free androidN prefix.
	maxPrefixSuffix = 1 << 16
)

// ensureNamespace declares the android schema on the root element. A prefix
// already bound to the schema is reused. Otherwise "android" is used when
// free, then android0, android1 and so on. Existing bindings are never
// changed.
func (p *pass) ensureNamespace() bool {
	if _, ok := p.root.LookupPrefix(xmldom.SchemaAndroid); ok {
		return true
	}
	prefix, ok := freePrefix(p.root)
	if !ok {
		// NSP-001: every candidate prefix is taken
		return p.fail(p.root, "NSP-001", "no free namespace prefix for "+xmldom.SchemaAndroid)
	}
	p.root.NamespaceDecls = append(p.root.NamespaceDecls, xmldom.NamespaceDecl{Prefix: prefix, URI: xmldom.SchemaAndroid})
	p.fixed(p.root, "FIX-NS", "declared xmlns:"+prefix+"=\""+xmldom.SchemaAndroid+"\"")
	return true
}

func freePrefix(el *xmldom.Element) (string, bool) {
	taken := make(map[string]bool, len(el.NamespaceDecls))
	for _, d := range el.NamespaceDecls {
		taken[d.Prefix] = true
	}
	if !taken[androidPrefix] {
		return androidPrefix, true
	}
	for i := 0; i < maxPrefixSuffix; i++ {
		candidate := androidPrefix + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate, true
		}
	}
	return "", false
}
