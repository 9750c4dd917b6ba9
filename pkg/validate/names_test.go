package validate

import "testing"

func TestJavaNames(t *testing.T) {
	tests := []struct {
		in          string
		class, pack bool
	}{
		{"com.example.Main", true, true},
		{"com.example.Main$Inner", true, true},
		{"Main", false, true},
		{"feature_a", false, true},
		{"com..Main", false, false},
		{"com.1example", false, false},
		{".Main", false, false},
		{"", false, false},
		{"com.exämple.Main", true, true},
	}
	for _, tt := range tests {
		if got := IsJavaClassName(tt.in); got != tt.class {
			t.Errorf("IsJavaClassName(%q) = %v, want %v", tt.in, got, tt.class)
		}
		if got := IsJavaPackageName(tt.in); got != tt.pack {
			t.Errorf("IsJavaPackageName(%q) = %v, want %v", tt.in, got, tt.pack)
		}
	}
}

func TestAndroidPackageName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"android", true},
		{"com.android", true},
		{"com.example.app_1", true},
		{"com", false},
		{"com.example$", false},
		{"com._example", false},
		{"com.1example", false},
		{"com.example.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsAndroidPackageName(tt.in); got != tt.want {
			t.Errorf("IsAndroidPackageName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !IsAndroidSplitName("feature") || !IsAndroidSplitName("config.xhdpi") || IsAndroidSplitName("1split") {
		t.Error("IsAndroidSplitName wrong")
	}
}

func TestFullyQualify(t *testing.T) {
	if got, ok := FullyQualify("com.example", ".Main"); !ok || got != "com.example.Main" {
		t.Errorf("relative: %q, %v", got, ok)
	}
	if got, ok := FullyQualify("com.example", "org.other.Main"); ok || got != "org.other.Main" {
		t.Errorf("absolute: %q, %v", got, ok)
	}
	if got, ok := FullyQualify("com.example", "Main"); ok || got != "Main" {
		t.Errorf("bare: %q, %v", got, ok)
	}
}

func TestResolveClassName(t *testing.T) {
	tests := []struct {
		pkg, name, want string
		ok              bool
	}{
		{"com.example", "com.other.Main", "com.other.Main", true},
		{"com.example", ".Main", "com.example.Main", true},
		{"com.example", "Main", "com.example.Main", true},
		{"com.example", "", "", false},
		{"", "Main", "", false},
		{"com.example", "1Main", "com.example.1Main", false},
	}
	for _, tt := range tests {
		got, ok := ResolveClassName(tt.pkg, tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveClassName(%q, %q) = %q, %v; want %q, %v", tt.pkg, tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
