package resvalue

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNotRepresentable is returned when no type allowed by a mask can
// represent a value.
var ErrNotRepresentable = errors.New("value not representable")

// Resource types accepted in @type/name references.
var resourceTypes = map[string]bool{
	"anim": true, "animator": true, "array": true, "attr": true, "bool": true,
	"color": true, "dimen": true, "drawable": true, "font": true,
	"fraction": true, "id": true, "integer": true, "interpolator": true,
	"layout": true, "macro": true, "menu": true, "mipmap": true,
	"navigation": true, "plurals": true, "raw": true, "string": true,
	"style": true, "styleable": true, "transition": true, "xml": true,
}

// IsResourceType reports whether t names a resource type.
func IsResourceType(t string) bool {
	return resourceTypes[t]
}

// ParseNull recognizes the @null and @empty literals.
func ParseNull(s string) (*Primitive, bool) {
	switch strings.TrimSpace(s) {
	case "@null":
		return &Primitive{Type: KindNull, Data: DataNullUndefined}, true
	case "@empty":
		return &Primitive{Type: KindNull, Data: DataNullEmpty}, true
	}
	return nil, false
}

// ParseReference parses @[+][*][pkg:]type/name and ?[pkg:][attr/]name.
func ParseReference(s string) (*Reference, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, false
	}
	switch s[0] {
	case '@':
		return parseResourceRef(s[1:])
	case '?':
		return parseThemeRef(s[1:])
	}
	return nil, false
}

// IsReference reports whether s is written in resource-reference syntax.
func IsReference(s string) bool {
	_, ok := ParseReference(s)
	return ok
}

func parseResourceRef(s string) (*Reference, bool) {
	ref := &Reference{}
	if strings.HasPrefix(s, "+") {
		ref.Create = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "*") {
		ref.Private = true
		s = s[1:]
	}
	pkg, rest := splitPackage(s)
	typ, entry, ok := strings.Cut(rest, "/")
	if !ok || entry == "" || !IsResourceType(typ) {
		return nil, false
	}
	if ref.Create && typ != "id" {
		return nil, false
	}
	ref.Name = ResourceName{Package: pkg, Type: typ, Entry: entry}
	return ref, true
}

func parseThemeRef(s string) (*Reference, bool) {
	pkg, rest := splitPackage(s)
	typ, entry, ok := strings.Cut(rest, "/")
	if !ok {
		typ, entry = "attr", rest
	}
	if typ != "attr" || entry == "" || strings.ContainsAny(entry, "/:") {
		return nil, false
	}
	return &Reference{Theme: true, Name: ResourceName{Package: pkg, Type: typ, Entry: entry}}, true
}

func splitPackage(s string) (pkg, rest string) {
	if before, after, ok := strings.Cut(s, ":"); ok {
		return before, after
	}
	return "", s
}

// ParseBool accepts true/false in lower, upper and title case.
func ParseBool(s string) (*Primitive, bool) {
	switch strings.TrimSpace(s) {
	case "true", "TRUE", "True":
		return &Primitive{Type: KindBoolean, Data: 0xffffffff}, true
	case "false", "FALSE", "False":
		return &Primitive{Type: KindBoolean, Data: 0}, true
	}
	return nil, false
}

// ParseInt accepts signed decimal int32 or 0x-prefixed hex uint32.
func ParseInt(s string) (*Primitive, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if !isHex(s[2:]) {
			return nil, false
		}
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return nil, false
		}
		return &Primitive{Type: KindIntHex, Data: uint32(v)}, true
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || !isDigits(digits) {
		return nil, false
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil, false
	}
	return &Primitive{Type: KindIntDec, Data: uint32(int32(v))}, true
}

// ParseColor accepts #rgb, #argb, #rrggbb and #aarrggbb.
func ParseColor(s string) (*Primitive, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '#' || !isHex(s[1:]) {
		return nil, false
	}
	h := s[1:]
	nib := func(i int) uint32 {
		v, _ := strconv.ParseUint(h[i:i+1], 16, 8)
		return uint32(v) * 0x11
	}
	byteAt := func(i int) uint32 {
		v, _ := strconv.ParseUint(h[i:i+2], 16, 8)
		return uint32(v)
	}
	switch len(h) {
	case 3:
		return &Primitive{Type: KindColorRGB4, Data: 0xff000000 | nib(0)<<16 | nib(1)<<8 | nib(2)}, true
	case 4:
		return &Primitive{Type: KindColorARGB4, Data: nib(0)<<24 | nib(1)<<16 | nib(2)<<8 | nib(3)}, true
	case 6:
		return &Primitive{Type: KindColorRGB8, Data: 0xff000000 | byteAt(0)<<16 | byteAt(2)<<8 | byteAt(4)}, true
	case 8:
		return &Primitive{Type: KindColorARGB8, Data: byteAt(0)<<24 | byteAt(2)<<16 | byteAt(4)<<8 | byteAt(6)}, true
	}
	return nil, false
}

// Complex value layout shared by dimensions and fractions.
const (
	complexUnitMask     = 0xf
	complexRadixShift   = 4
	complexRadixMask    = 0x3
	complexMantissaShft = 8
	complexMantissaMask = 0xffffff

	radix23p0 = 0
	radix16p7 = 1
	radix8p15 = 2
	radix0p23 = 3
)

type unit struct {
	name     string
	kind     Kind
	code     uint32
	fraction bool
}

var units = []unit{
	{"px", KindDimension, 0, false},
	{"dip", KindDimension, 1, false},
	{"dp", KindDimension, 1, false},
	{"sp", KindDimension, 2, false},
	{"pt", KindDimension, 3, false},
	{"in", KindDimension, 4, false},
	{"mm", KindDimension, 5, false},
	{"%", KindFraction, 0, true},
	{"%p", KindFraction, 1, true},
}

func dimensionUnitName(code uint32) string {
	for _, u := range units {
		if !u.fraction && u.code == code && u.name != "dip" {
			return u.name
		}
	}
	return ""
}

func fractionUnitName(code uint32) string {
	if code == 1 {
		return "%p"
	}
	return "%"
}

// ParseFloat parses a plain float, a dimension (number followed by a unit
// such as dp or px), or a fraction (number followed by % or %p).
func ParseFloat(s string) (*Primitive, bool) {
	s = strings.TrimSpace(s)
	end := scanNumber(s)
	if end == 0 {
		return nil, false
	}
	f, err := strconv.ParseFloat(s[:end], 32)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	suffix := strings.TrimSpace(s[end:])
	if suffix == "" {
		return &Primitive{Type: KindFloat, Data: math.Float32bits(float32(f))}, true
	}
	for _, u := range units {
		if u.name != suffix {
			continue
		}
		if u.fraction {
			f /= 100
		}
		data, ok := floatToComplex(f)
		if !ok {
			return nil, false
		}
		return &Primitive{Type: u.kind, Data: data | u.code}, true
	}
	return nil, false
}

// scanNumber returns the length of the leading decimal number in s.
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	intDigits := i - start
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		fracDigits = j - i - 1
		if intDigits > 0 || fracDigits > 0 {
			i = j
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func floatToComplex(f float64) (uint32, bool) {
	neg := f < 0
	if neg {
		f = -f
	}
	scaled := f*(1<<23) + 0.5
	if scaled >= math.MaxUint64/2 {
		return 0, false
	}
	bits := uint64(scaled)
	var radix, shift uint32
	switch {
	case bits&0x7fffff == 0:
		radix, shift = radix23p0, 23
	case bits&0xffffffffff800000 == 0:
		radix, shift = radix0p23, 0
	case bits&0xffffffff80000000 == 0:
		radix, shift = radix8p15, 8
	case bits&0xffffff8000000000 == 0:
		radix, shift = radix16p7, 16
	default:
		radix, shift = radix23p0, 23
	}
	if bits>>shift > complexMantissaMask>>1 {
		return 0, false
	}
	mantissa := uint32(bits>>shift) & complexMantissaMask
	if neg {
		mantissa = (-mantissa) & complexMantissaMask
	}
	return radix<<complexRadixShift | mantissa<<complexMantissaShft, true
}

var radixMults = [4]float64{
	1.0 / (1 << 8),
	1.0 / (1 << 7) / (1 << 8),
	1.0 / (1 << 15) / (1 << 8),
	1.0 / (1 << 23) / (1 << 8),
}

func complexToFloat(data uint32) float64 {
	m := int32(data & (complexMantissaMask << complexMantissaShft))
	return float64(m) * radixMults[(data>>complexRadixShift)&complexRadixMask]
}

// ParseEnum resolves s against enum symbols, returning the symbol value as
// a decimal integer.
func ParseEnum(s string, values map[string]uint32) (*Primitive, bool) {
	v, ok := values[strings.TrimSpace(s)]
	if !ok {
		return nil, false
	}
	return &Primitive{Type: KindIntDec, Data: v}, true
}

// ParseFlags resolves a |-separated list of flag symbols, OR-ing their values.
func ParseFlags(s string, values map[string]uint32) (*Primitive, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var data uint32
	for _, part := range strings.Split(s, "|") {
		v, ok := values[strings.TrimSpace(part)]
		if !ok {
			return nil, false
		}
		data |= v
	}
	return &Primitive{Type: KindIntHex, Data: data}, true
}

// ParseItem compiles s against mask. Enum and flag symbols are tried when the
// mask allows them and values is non-nil. References are accepted for any
// mask; whether they resolve is the caller's concern.
func ParseItem(s string, mask TypeMask, values map[string]uint32) (Item, error) {
	if p, ok := ParseNull(s); ok {
		return p, nil
	}
	if ref, ok := ParseReference(s); ok {
		return ref, nil
	}
	if mask.Has(TypeColor) {
		if p, ok := ParseColor(s); ok {
			return p, nil
		}
	}
	if mask.Has(TypeBoolean) {
		if p, ok := ParseBool(s); ok {
			return p, nil
		}
	}
	if mask.Has(TypeInteger) {
		if p, ok := ParseInt(s); ok {
			return p, nil
		}
	}
	if mask.Has(TypeFloat | TypeDimension | TypeFraction) {
		if p, ok := ParseFloat(s); ok && mask.Has(p.Type.Mask()) {
			return p, nil
		}
	}
	if mask.Has(TypeEnum) {
		if p, ok := ParseEnum(s, values); ok {
			return p, nil
		}
	}
	if mask.Has(TypeFlags) {
		if p, ok := ParseFlags(s, values); ok {
			return p, nil
		}
	}
	if mask.Has(TypeString) {
		return &String{Value: s}, nil
	}
	return nil, fmt.Errorf("%q as %s: %w", s, mask, ErrNotRepresentable)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return s != ""
}
