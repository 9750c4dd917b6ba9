package fixer

import (
	"github.com/adammathes/manifestfix/pkg/xmldom"
)

// setDefault writes value to the android attribute name when it is absent,
// or when replace is set. It reports whether the attribute changed.
func (p *pass) setDefault(el *xmldom.Element, name, value string, replace bool) bool {
	if value == "" {
		return false
	}
	attr := el.FindAttribute(xmldom.SchemaAndroid, name)
	switch {
	case attr == nil:
		el.SetAttribute(xmldom.SchemaAndroid, name, value)
		p.fixed(el, "FIX-"+fixKind(el), "added android:"+name+"=\""+value+"\" to <"+el.Name+">")
	case replace && attr.Value != value:
		old := attr.Value
		el.SetAttribute(xmldom.SchemaAndroid, name, value)
		p.fixed(el, "FIX-"+fixKind(el), "replaced android:"+name+"=\""+old+"\" with \""+value+"\" in <"+el.Name+">")
	default:
		return false
	}
	return true
}

func fixKind(el *xmldom.Element) string {
	if el.Name == "uses-sdk" {
		return "SDK"
	}
	return "VER"
}

// usesSdk fills in SDK version defaults, creating <uses-sdk> as the first
// child of <manifest> when needed, and moves any <uses-sdk> that follows
// <application> in front of it.
func (p *pass) usesSdk() bool {
	minSdk, targetSdk := p.opts.MinSdkVersionDefault, p.opts.TargetSdkVersionDefault
	if minSdk != "" || targetSdk != "" {
		el := p.root.FindChild("", "uses-sdk")
		if el == nil {
			el = xmldom.NewElement("", "uses-sdk")
			p.root.InsertChild(0, el)
			p.fixed(p.root, "FIX-SDK", "added <uses-sdk>")
		}
		p.setDefault(el, "minSdkVersion", minSdk, false)
		p.setDefault(el, "targetSdkVersion", targetSdk, false)
	}
	return p.orderUsesSdk()
}

func (p *pass) orderUsesSdk() bool {
	app := p.root.FindChild("", "application")
	if app == nil {
		return true
	}
	for _, sdk := range p.root.FindChildren("", "uses-sdk") {
		if p.root.IndexOf(sdk) < p.root.IndexOf(app) {
			continue
		}
		p.root.RemoveChild(sdk)
		p.root.InsertChild(p.root.IndexOf(app), sdk)
		p.fixed(sdk, "FIX-ORDER", "moved <uses-sdk> before <application>")
	}
	for _, sdk := range p.root.FindChildren("", "uses-sdk") {
		if p.root.IndexOf(sdk) > p.root.IndexOf(app) {
			// ORD-001: placement did not hold
			return p.fail(sdk, "ORD-001", "<uses-sdk> must come before <application>")
		}
	}
	return true
}

// versions applies the version family defaults to <manifest>.
func (p *pass) versions() bool {
	for _, d := range p.opts.versionDefaults() {
		p.setDefault(p.root, d.name, d.value, p.opts.ReplaceVersion)
	}
	return true
}

// compileSdk overwrites the compile SDK metadata. Both the android
// attributes and their unprefixed platformBuildVersion counterparts are set.
func (p *pass) compileSdk() bool {
	if p.opts.NoCompileSdkMetadata {
		return true
	}
	pairs := []struct{ android, platform, value string }{
		{"compileSdkVersion", "platformBuildVersionCode", p.opts.CompileSdkVersion},
		{"compileSdkVersionCodename", "platformBuildVersionName", p.opts.CompileSdkVersionCodename},
	}
	for _, pair := range pairs {
		if pair.value == "" {
			continue
		}
		p.root.SetAttribute(xmldom.SchemaAndroid, pair.android, pair.value)
		p.root.SetAttribute("", pair.platform, pair.value)
		p.fixed(p.root, "FIX-CSDK", "set android:"+pair.android+" and "+pair.platform+" to \""+pair.value+"\"")
	}
	return true
}

// nonUpdatableSystem marks a package as not updatable when it carries no
// version attribute at all, counting the ones versions just wrote.
func (p *pass) nonUpdatableSystem() bool {
	if !p.opts.NonUpdatableSystem {
		return true
	}
	for _, d := range p.opts.versionDefaults() {
		if p.root.FindAttribute(xmldom.SchemaAndroid, d.name) != nil {
			return true
		}
	}
	p.root.SetAttribute("", "updatableSystem", "false")
	p.fixed(p.root, "FIX-SYS", "set updatableSystem=\"false\"")
	return true
}

// debuggable forces android:debuggable="true" in debug mode.
func (p *pass) debuggable() bool {
	if !p.opts.DebugMode {
		return true
	}
	for _, app := range p.root.FindChildren("", "application") {
		if v, _ := app.AttributeValue(xmldom.SchemaAndroid, "debuggable"); v == "true" {
			continue
		}
		app.SetAttribute(xmldom.SchemaAndroid, "debuggable", "true")
		p.fixed(app, "FIX-DBG", "set android:debuggable=\"true\"")
	}
	return true
}

// fingerprintPrefixes appends the configured prefixes to the manifest's
// <install-constraints>, creating it as the last child if needed.
func (p *pass) fingerprintPrefixes() bool {
	if len(p.opts.FingerprintPrefixes) == 0 {
		return true
	}
	ic := p.root.FindChild("", "install-constraints")
	if ic == nil {
		ic = xmldom.NewElement("", "install-constraints")
		p.root.AppendChild(ic)
		p.fixed(p.root, "FIX-FPR", "added <install-constraints>")
	}
	for _, prefix := range p.opts.FingerprintPrefixes {
		fp := xmldom.NewElement("", "fingerprint-prefix")
		fp.SetAttribute(xmldom.SchemaAndroid, "value", prefix)
		ic.AppendChild(fp)
		p.fixed(ic, "FIX-FPR", "added fingerprint prefix '"+prefix+"'")
	}
	return true
}
