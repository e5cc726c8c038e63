package jcat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/tidwall/pretty"
)

// Options controls rendering and highlighting.
type Options struct {
	// Width is the target line length in columns. Default 80.
	Width int
	// Indent is the number of columns each nesting level is indented by in
	// the python format. Default 1.
	Indent int
	// SortKeys sorts object keys. Default true.
	SortKeys bool
	// Compact packs several short array elements per line. Default true.
	Compact bool
	// Unwrap decodes JSON-looking string values, see MaxNestedJSONDepth.
	Unwrap bool
	// Format selects the output notation. Default FormatPython.
	Format Format
	// Style names the chroma style. Empty picks DefaultStyle, "none"
	// disables colouring.
	Style string
	// Formatter names the chroma terminal formatter. Default "terminal256".
	Formatter string
	// NoColor writes the rendering without escape sequences.
	NoColor bool
	// PlainCopy writes an uncoloured copy of each rendering before the
	// highlighted one.
	PlainCopy bool
}

// DefaultOptions holds the fallback configuration.
var DefaultOptions = &Options{
	Width:     80,
	Indent:    1,
	SortKeys:  true,
	Compact:   true,
	Format:    DefaultFormat,
	Formatter: DefaultFormatter,
}

// Printer decodes, renders and highlights JSON documents.
type Printer struct {
	opts      Options
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// New returns a Printer for opts (or DefaultOptions). It fails when the
// format, style or formatter is unknown.
func New(opts *Options) (*Printer, error) {
	if opts == nil {
		opts = DefaultOptions
	}
	p := &Printer{opts: *opts}
	if p.opts.Format == "" {
		p.opts.Format = DefaultFormat
	}
	if err := p.opts.Format.Set(string(p.opts.Format)); err != nil {
		return nil, err
	}

	lexer := lexers.Get(p.opts.Format.lexerName())
	if lexer == nil {
		return nil, fmt.Errorf("no lexer for format %q", p.opts.Format)
	}
	p.lexer = chroma.Coalesce(lexer)

	formatter, err := resolveFormatter(p.opts.Formatter)
	if err != nil {
		return nil, err
	}
	p.formatter = formatter
	// Named styles are validated even when colouring is off.
	if p.opts.NoColor && p.opts.Style == "" {
		return p, nil
	}
	style, err := resolveStyle(p.opts.Style)
	if err != nil {
		return nil, err
	}
	if !p.opts.NoColor {
		p.style = style
	}
	return p, nil
}

// Colored reports whether the printer emits escape sequences.
func (p *Printer) Colored() bool {
	return p.style != nil
}

// Render converts v into text without a trailing newline. v may be
// modified by unwrapping and key sorting.
func (p *Printer) Render(v *Value) (string, error) {
	if p.opts.Unwrap {
		v = Unwrap(v)
	}
	if p.opts.SortKeys {
		SortKeys(v)
	}
	switch p.opts.Format {
	case FormatJSON:
		b, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		out := pretty.PrettyOptions(b, &pretty.Options{
			Width:  p.opts.Width,
			Indent: "  ",
		})
		return strings.TrimRight(string(out), "\n"), nil
	case FormatCompact:
		b, err := v.MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		l := acquireLayout(&p.opts)
		defer releaseLayout(l)
		l.format(v, 0, 0, 0)
		return l.sb.String(), nil
	}
}

// Highlight writes text to w coloured with the printer's style. Without a
// style the text is written unchanged.
func (p *Printer) Highlight(w io.Writer, text string) error {
	if p.style == nil {
		_, err := io.WriteString(w, text)
		return err
	}
	it, err := p.lexer.Tokenise(nil, text)
	if err != nil {
		return err
	}
	// Format into memory so write errors reach the caller.
	buf := acquireBuffer()
	defer releaseBuffer(buf)
	if err := p.formatter.Format(buf, p.style, it); err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// Print reads one JSON document from r and writes its rendering to w. name
// identifies the input in errors.
func (p *Printer) Print(w io.Writer, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	v, err := DecodeBytes(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = name
		}
		return err
	}
	text, err := p.Render(v)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	text += "\n"
	if p.opts.PlainCopy {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return p.Highlight(w, text)
}

// Pretty renders a single document held in memory with opts and returns the
// highlighted bytes.
func Pretty(in []byte, opts *Options) ([]byte, error) {
	p, err := New(opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.Print(&buf, "<input>", bytes.NewReader(in)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
