package jcat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// literalParser reads the notation produced by Pformat back into plain Go
// values so renderings can be compared with the JSON they came from.
type literalParser struct {
	s   string
	pos int
}

func parseLiteral(s string) (any, error) {
	p := &literalParser{s: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("trailing data at %d: %q", p.pos, p.s[p.pos:])
	}
	return v, nil
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.s) && strings.IndexByte(" \t\n", p.s[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("unexpected end")
	}
	switch c := p.s[p.pos]; {
	case c == '{':
		return p.dict()
	case c == '[':
		return p.list()
	case c == '(':
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(")") {
			return nil, fmt.Errorf("missing ) at %d", p.pos)
		}
		return v, nil
	case c == '\'' || c == '"':
		return p.joinedString()
	case p.consume("None"):
		return nil, nil
	case p.consume("True"):
		return true, nil
	case p.consume("False"):
		return false, nil
	default:
		return p.number()
	}
}

func (p *literalParser) consume(tok string) bool {
	if strings.HasPrefix(p.s[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *literalParser) dict() (any, error) {
	p.pos++
	out := map[string]any{}
	for {
		p.skipSpace()
		if p.consume("}") {
			return out, nil
		}
		if len(out) > 0 && !p.consume(",") {
			return nil, fmt.Errorf("expected , at %d", p.pos)
		}
		k, err := p.value()
		if err != nil {
			return nil, err
		}
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("non-string key %v", k)
		}
		p.skipSpace()
		if !p.consume(":") {
			return nil, fmt.Errorf("expected : at %d", p.pos)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
}

func (p *literalParser) list() (any, error) {
	p.pos++
	out := []any{}
	for {
		p.skipSpace()
		if p.consume("]") {
			return out, nil
		}
		if len(out) > 0 && !p.consume(",") {
			return nil, fmt.Errorf("expected , at %d", p.pos)
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// joinedString joins adjacent quoted literals.
func (p *literalParser) joinedString() (any, error) {
	var sb strings.Builder
	for {
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
		save := p.pos
		p.skipSpace()
		if p.pos < len(p.s) && (p.s[p.pos] == '\'' || p.s[p.pos] == '"') {
			continue
		}
		p.pos = save
		return sb.String(), nil
	}
}

func (p *literalParser) quoted() (string, error) {
	quote := p.s[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.s) {
				return "", fmt.Errorf("dangling escape")
			}
			e := p.s[p.pos+1]
			p.pos += 2
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(e)
			case 'x', 'u', 'U':
				n := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
				r, err := strconv.ParseUint(p.s[p.pos:p.pos+n], 16, 32)
				if err != nil {
					return "", err
				}
				sb.WriteRune(rune(r))
				p.pos += n
			default:
				return "", fmt.Errorf("unknown escape \\%c", e)
			}
		default:
			r, size := utf8.DecodeRuneInString(p.s[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.s) && strings.IndexByte("+-0123456789.eEinf", p.s[p.pos]) >= 0 {
		p.pos++
	}
	lit := p.s[start:p.pos]
	if lit == "" {
		return nil, fmt.Errorf("unexpected %q at %d", p.s[start], start)
	}
	return normalizeNumber(lit)
}

// normalizeNumber maps integer literals to their canonical decimal string and
// everything else to float64.
func normalizeNumber(lit string) (any, error) {
	switch lit {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	if !strings.ContainsAny(lit, ".eE") {
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, fmt.Errorf("bad integer %q", lit)
		}
		return n.String(), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(f, 0) {
		return nil, err
	}
	return f, nil
}

func normalizeJSON(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, vv := range x {
			n, err := normalizeJSON(vv)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case []any:
		for i, vv := range x {
			n, err := normalizeJSON(vv)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case json.Number:
		return normalizeNumber(x.String())
	default:
		return x, nil
	}
}

func decodeStd(t testing.TB, data []byte) (any, bool) {
	t.Helper()
	if !json.Valid(data) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	n, err := normalizeJSON(v)
	if err != nil {
		return nil, false
	}
	return n, true
}

func checkRoundTrip(t testing.TB, src []byte, width int, style string) {
	t.Helper()
	want, ok := decodeStd(t, src)
	if !ok {
		t.Fatalf("test input is not valid JSON: %s", src)
	}
	opts := *DefaultOptions
	opts.Width = width
	opts.Style = style
	out, err := Pretty(src, &opts)
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	got, err := parseLiteral(ansi.Strip(string(out)))
	if err != nil {
		t.Fatalf("cannot parse rendering: %v\n%s", err, out)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rendering at width %d does not match input\ninput: %s\nrendering:\n%s", width, src, out)
	}
}

var roundTripDocs = []string{
	`null`,
	`"it's a \"quoted\" string with \\ and \t tabs\nand lines"`,
	`{"a": 1, "b": [1,2,3]}`,
	`{"unicode":"snowman ☃ café 😀","ctrl":"\u0000\u001f\u007f\u00a0\u200b\u2028next","neg_zero":-0,"float":1.0}`,
	`[1e400, -2.5E-7, 12345678901234567890, 0.1, 1e16, 1e15]`,
	`{"deep":{"er":{"est":[[[],{}],[{"k":"the quick brown fox jumps over the lazy dog"}]]}}}`,
	`{"dup":1,"dup":2,"list":["x","y","z","a much longer string that needs wrapping when narrow"]}`,
}

func TestRenderingRoundTrips(t *testing.T) {
	for _, doc := range roundTripDocs {
		for _, width := range []int{1, 8, 20, 40, 120} {
			checkRoundTrip(t, []byte(doc), width, StyleNone)
		}
		checkRoundTrip(t, []byte(doc), 30, "monokai")
	}
}
