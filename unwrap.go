package jcat

import (
	"strings"
)

// MaxNestedJSONDepth controls how deep we recursively parse JSON that appears
// inside string values when Options.Unwrap is set. Special case:
//   - If MaxNestedJSONDepth == 0, we still unwrap one level (i.e., parse the
//     string as JSON once, but do not recurse further).
//
// Example meanings:
//
//	0  -> unwrap once (non-recursive)
//	1  -> unwrap once (same as 0)
//	2+ -> unwrap up to that many recursive levels
var MaxNestedJSONDepth = 10

// Unwrap replaces string values holding a JSON object or array with the
// decoded value, recursing up to MaxNestedJSONDepth levels of nesting.
func Unwrap(v *Value) *Value {
	depth := MaxNestedJSONDepth
	if depth <= 0 {
		depth = 1 // "0" means unwrap once
	}
	return unwrapNested(v, depth)
}

func unwrapNested(v *Value, depth int) *Value {
	if v == nil {
		return v
	}
	switch v.Kind {
	case Object:
		for i := range v.Members {
			v.Members[i].Value = unwrapNested(v.Members[i].Value, depth)
		}
	case Array:
		for i, item := range v.Items {
			v.Items[i] = unwrapNested(item, depth)
		}
	case String:
		if depth > 0 {
			if parsed, ok := tryParseInlineJSON(v.Str, depth-1); ok {
				return parsed
			}
		}
	}
	return v
}

func tryParseInlineJSON(s string, nextDepth int) (*Value, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return nil, false
	}
	first, last := s[0], s[len(s)-1]
	if !((first == '{' && last == '}') || (first == '[' && last == ']')) {
		return nil, false
	}
	v, err := Decode(strings.NewReader(s))
	if err != nil {
		return nil, false
	}
	return unwrapNested(v, nextDepth), true
}
