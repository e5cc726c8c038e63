package jcat

import (
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Repr returns the single-line literal rendering of v: None/True/False,
// quoted strings, canonical numbers and bracketed containers joined with
// ", ".
func Repr(v *Value) string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

func writeRepr(sb *strings.Builder, v *Value) {
	if v == nil {
		sb.WriteString("None")
		return
	}
	switch v.Kind {
	case Null:
		sb.WriteString("None")
	case Bool:
		if v.Bool {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case Number:
		sb.WriteString(reprNumber(v.Num.String()))
	case String:
		sb.WriteString(reprString(v.Str))
	case Array:
		sb.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, item)
		}
		sb.WriteByte(']')
	case Object:
		sb.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(reprString(m.Key))
			sb.WriteString(": ")
			writeRepr(sb, m.Value)
		}
		sb.WriteByte('}')
	}
}

// reprNumber renders a JSON number literal. Literals without a fraction or
// exponent are integers of arbitrary size; everything else is a float64.
func reprNumber(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		if n, ok := new(big.Int).SetString(lit, 10); ok {
			return n.String()
		}
		return lit
	}
	// Out of range literals come back as ±Inf alongside ErrRange.
	f, _ := strconv.ParseFloat(lit, 64)
	return reprFloat(f)
}

// reprFloat produces the shortest round-trip form, switching to scientific
// notation when the decimal exponent is below -4 or at least 16.
func reprFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// reprString quotes s with single quotes, or double quotes when s contains a
// single quote but no double quote.
func reprString(s string) string {
	quote := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		quote = '"'
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == rune(quote) || r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < ' ' || r == 0x7f:
			writeHexEscape(&sb, 'x', r, 2)
		case r < 0x7f:
			sb.WriteRune(r)
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		case r <= 0xff:
			writeHexEscape(&sb, 'x', r, 2)
		case r <= 0xffff:
			writeHexEscape(&sb, 'u', r, 4)
		default:
			writeHexEscape(&sb, 'U', r, 8)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

func writeHexEscape(sb *strings.Builder, kind byte, r rune, digits int) {
	const hex = "0123456789abcdef"
	sb.WriteByte('\\')
	sb.WriteByte(kind)
	for shift := (digits - 1) * 4; shift >= 0; shift -= 4 {
		sb.WriteByte(hex[(r>>uint(shift))&0xf])
	}
}

// SortKeys orders the members of every object in v by key, recursively.
func SortKeys(v *Value) {
	if v == nil {
		return
	}
	switch v.Kind {
	case Array:
		for _, item := range v.Items {
			SortKeys(item)
		}
	case Object:
		sort.SliceStable(v.Members, func(i, j int) bool {
			return v.Members[i].Key < v.Members[j].Key
		})
		for _, m := range v.Members {
			SortKeys(m.Value)
		}
	}
}
