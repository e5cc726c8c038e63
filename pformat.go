package jcat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Pformat renders v in literal notation, wrapping containers and long
// strings that do not fit within opts.Width columns. When opts.SortKeys is
// set, the members of every object in v are sorted in place first.
//
// A value is written on one line whenever its single-line form fits the
// space left on the current line. Otherwise objects place one member per
// line, arrays pack as many elements per line as fit (or one per line when
// opts.Compact is false) and strings are split on whitespace into adjacent
// literals.
func Pformat(v *Value, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions
	}
	if opts.SortKeys {
		SortKeys(v)
	}
	l := acquireLayout(opts)
	defer releaseLayout(l)
	l.format(v, 0, 0, 0)
	return l.sb.String()
}

type layout struct {
	sb       strings.Builder
	width    int
	perLevel int
	compact  bool
	reprs    map[*Value]string
}

func (l *layout) reset(opts *Options) {
	l.width = opts.Width
	l.perLevel = opts.Indent
	l.compact = opts.Compact
	if l.width < 1 {
		l.width = 1
	}
	if l.perLevel < 0 {
		l.perLevel = 0
	}
}

// repr memoizes Repr, containers are measured once per nesting level above
// them otherwise.
func (l *layout) repr(v *Value) string {
	if v == nil || (v.Kind != Array && v.Kind != Object) {
		return Repr(v)
	}
	if s, ok := l.reprs[v]; ok {
		return s
	}
	s := Repr(v)
	l.reprs[v] = s
	return s
}

func (l *layout) format(v *Value, indent, allowance, level int) {
	rep := l.repr(v)
	if runeLen(rep) > l.width-indent-allowance && v != nil {
		switch v.Kind {
		case Object:
			l.object(v, indent, allowance, level+1)
			return
		case Array:
			l.array(v, indent, allowance, level+1)
			return
		case String:
			l.str(v.Str, indent, allowance, level+1)
			return
		}
	}
	l.sb.WriteString(rep)
}

func (l *layout) object(v *Value, indent, allowance, level int) {
	l.sb.WriteByte('{')
	if l.perLevel > 1 {
		l.sb.WriteString(strings.Repeat(" ", l.perLevel-1))
	}
	if len(v.Members) > 0 {
		l.members(v.Members, indent, allowance+1, level)
	}
	l.sb.WriteByte('}')
}

func (l *layout) members(members []Member, indent, allowance, level int) {
	indent += l.perLevel
	delim := ",\n" + strings.Repeat(" ", indent)
	last := len(members) - 1
	for i, m := range members {
		key := reprString(m.Key)
		l.sb.WriteString(key)
		l.sb.WriteString(": ")
		a := 1
		if i == last {
			a = allowance
		}
		l.format(m.Value, indent+runeLen(key)+2, a, level)
		if i != last {
			l.sb.WriteString(delim)
		}
	}
}

func (l *layout) array(v *Value, indent, allowance, level int) {
	l.sb.WriteByte('[')
	l.items(v.Items, indent, allowance+1, level)
	l.sb.WriteByte(']')
}

func (l *layout) items(items []*Value, indent, allowance, level int) {
	indent += l.perLevel
	if l.perLevel > 1 {
		l.sb.WriteString(strings.Repeat(" ", l.perLevel-1))
	}
	delimNL := ",\n" + strings.Repeat(" ", indent)
	delim := ""
	width := l.width - indent + 1
	maxWidth := width
	for i, item := range items {
		last := i == len(items)-1
		if last {
			maxWidth -= allowance
			width -= allowance
		}
		if l.compact {
			rep := l.repr(item)
			w := runeLen(rep) + 2
			if width < w {
				width = maxWidth
				if delim != "" {
					delim = delimNL
				}
			}
			if width >= w {
				width -= w
				l.sb.WriteString(delim)
				delim = ", "
				l.sb.WriteString(rep)
				continue
			}
		}
		l.sb.WriteString(delim)
		delim = delimNL
		a := 1
		if last {
			a = allowance
		}
		l.format(item, indent, a, level)
	}
}

// str splits a long string into one literal per line of s, breaking lines
// that are still too wide at whitespace boundaries. A top-level string is
// parenthesized so the adjacent literals read as a single expression.
func (l *layout) str(s string, indent, allowance, level int) {
	if s == "" {
		l.sb.WriteString(reprString(s))
		return
	}
	lines := splitLines(s)
	if level == 1 {
		indent++
		allowance++
	}
	maxWidth := l.width - indent
	maxWidth1 := maxWidth
	var chunks []string
	for i, line := range lines {
		lastLine := i == len(lines)-1
		rep := reprString(line)
		if lastLine {
			maxWidth1 -= allowance
		}
		if runeLen(rep) <= maxWidth1 {
			chunks = append(chunks, rep)
			continue
		}
		parts := splitWords(line)
		maxWidth2 := maxWidth
		current := ""
		for j, part := range parts {
			candidate := current + part
			if j == len(parts)-1 && lastLine {
				maxWidth2 -= allowance
			}
			if runeLen(reprString(candidate)) > maxWidth2 {
				if current != "" {
					chunks = append(chunks, reprString(current))
				}
				current = part
			} else {
				current = candidate
			}
		}
		if current != "" {
			chunks = append(chunks, reprString(current))
		}
	}
	if len(chunks) == 1 {
		l.sb.WriteString(chunks[0])
		return
	}
	if level == 1 {
		l.sb.WriteByte('(')
	}
	for i, c := range chunks {
		if i > 0 {
			l.sb.WriteByte('\n')
			l.sb.WriteString(strings.Repeat(" ", indent))
		}
		l.sb.WriteString(c)
	}
	if level == 1 {
		l.sb.WriteByte(')')
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// splitLines splits s after every line boundary, keeping the terminators.
// "\r\n" counts as a single boundary.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if !isLineBreak(r) {
			continue
		}
		if r == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}
		lines = append(lines, s[start:i])
		start = i
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// splitWords cuts line into runs of non-space characters each followed by
// the whitespace after it. Concatenating the parts yields line.
func splitWords(line string) []string {
	var parts []string
	for i := 0; i < len(line); {
		start := i
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if isSpace(r) {
				break
			}
			i += size
		}
		for i < len(line) {
			r, size := utf8.DecodeRuneInString(line[i:])
			if !isSpace(r) {
				break
			}
			i += size
		}
		parts = append(parts, line[start:i])
	}
	return parts
}
