package neopool

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Value coercion helpers. All functions are total: bad input yields the
// (zero, false) pair or the supplied default, never a panic or error.
// Telemetry values arrive as float64, string, or bool after JSON
// decoding, but each helper also accepts native Go integer input so
// catalog transforms and tests can pass literals.

// ToFloat converts numeric or numeric-string input to float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FloatOr converts like ToFloat, falling back to def on failure.
func FloatOr(v any, def float64) float64 {
	if f, ok := ToFloat(v); ok {
		return f
	}
	return def
}

// ToInt converts numeric or numeric-string input to int, truncating
// float-like input toward zero ("3.9" becomes 3).
func ToInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case float32:
		return int(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// IntOr converts like ToInt, falling back to def on failure.
func IntOr(v any, def int) int {
	if n, ok := ToInt(v); ok {
		return n
	}
	return def
}

// BitToBool strictly decodes a single-bit telemetry value.
//
// The string "1" or the number 1 decode to true; "0" or 0 decode to
// false. Anything else is ambiguous and returns ok=false rather than a
// default, so callers can distinguish "off" from "cannot tell".
func BitToBool(v any) (value, ok bool) {
	switch x := v.(type) {
	case string:
		switch x {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case int:
		switch x {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case int64:
		switch x {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case float64:
		switch x {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	}
	return false, false
}

// IntToBool leniently decodes any value to a boolean: input coercible
// to an integer greater than zero is true; zero, negative, or
// uncoercible input is false. Unlike BitToBool this is always decided,
// for fields where "no value" must still read as off.
func IntToBool(v any) bool {
	n, ok := ToInt(v)
	return ok && n > 0
}

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseRuntimeDuration parses the controller's runtime counter format
// "<days>T<hours>:<minutes>:<seconds>" into fractional hours.
//
//	ParseRuntimeDuration("123T04:30:00") // 2956.5
//
// Any structural mismatch (missing T separator, wrong number of time
// parts, non-numeric fields) returns ok=false.
func ParseRuntimeDuration(text string) (float64, bool) {
	parts := strings.SplitN(text, "T", 2)
	if len(parts) != 2 {
		return 0, false
	}
	days, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}

	hms := strings.Split(parts[1], ":")
	if len(hms) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(hms[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(hms[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(hms[2])
	if err != nil {
		return 0, false
	}

	return float64(days)*24 + float64(hours) + float64(minutes)/60 + float64(seconds)/3600, true
}

// LookupByValue performs a reverse lookup in a small enum-like map and
// returns the first key holding want. Map iteration order is random in
// Go, so keys are visited in sorted order to keep the duplicate-value
// tie-break deterministic: the smallest matching key wins.
func LookupByValue[K cmp.Ordered, V comparable](m map[K]V, want V) (K, bool) {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if m[k] == want {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// ValidNodeID reports whether a controller identity value is usable
// for building unique entity IDs. Nil, empty, and the administrative
// sentinels "hidden" / "hidden_by_default" (case-insensitive) are
// rejected; the controller reports those when its Powerunit NodeID has
// been hidden from telemetry.
func ValidNodeID(v any) bool {
	if v == nil {
		return false
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return false
	}
	switch strings.ToLower(s) {
	case "hidden", "hidden_by_default":
		return false
	}
	return true
}
