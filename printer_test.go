package jcat

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func noColorOptions(width int) *Options {
	opts := *DefaultOptions
	opts.Width = width
	opts.Style = StyleNone
	return &opts
}

func TestPrettyPlain(t *testing.T) {
	src := []byte(`{"a": 1, "b": [1,2,3]}`)

	out, err := Pretty(src, noColorOptions(120))
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	if got, want := string(out), "{'a': 1, 'b': [1, 2, 3]}\n"; got != want {
		t.Fatalf("unexpected output\nwant: %q\ngot:  %q", want, got)
	}

	out, err = Pretty(src, noColorOptions(10))
	if err != nil {
		t.Fatalf("Pretty failed: %v", err)
	}
	if got, want := string(out), "{'a': 1,\n 'b': [1,\n       2,\n       3]}\n"; got != want {
		t.Fatalf("unexpected narrow output\nwant: %q\ngot:  %q", want, got)
	}
	if strings.ContainsRune(string(out), '\u001b') {
		t.Fatalf("expected output without color codes, found escape sequence: %q", out)
	}
}

func TestPrettyColoredStripsToPlain(t *testing.T) {
	src := []byte(`{"name":"jcat","tags":["json","cli","pretty"],"nested":{"ok":true,"none":null,"pi":3.14}}`)
	for _, formatter := range FormatterNames() {
		opts := *DefaultOptions
		opts.Width = 30
		opts.Style = "monokai"
		opts.Formatter = formatter

		colored, err := Pretty(src, &opts)
		if err != nil {
			t.Fatalf("%s: Pretty failed: %v", formatter, err)
		}
		plain, err := Pretty(src, noColorOptions(30))
		if err != nil {
			t.Fatalf("Pretty failed: %v", err)
		}
		if !bytes.Contains(colored, []byte("\x1b[")) {
			t.Fatalf("%s: expected escape sequences in %q", formatter, colored)
		}
		if got := ansi.Strip(string(colored)); got != string(plain) {
			t.Fatalf("%s: stripped output differs\nwant: %q\ngot:  %q", formatter, plain, got)
		}
	}
}

func TestPrintPlainCopy(t *testing.T) {
	opts := noColorOptions(80)
	opts.PlainCopy = true
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var buf bytes.Buffer
	if err := p.Print(&buf, "<stdin>", strings.NewReader(`[true, null]`)); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if got, want := buf.String(), "[True, None]\n[True, None]\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRenderFormats(t *testing.T) {
	src := `{"b": [1, 2, 3], "a": null}`
	cases := []struct {
		format Format
		want   string
	}{
		{FormatPython, `{'a': None, 'b': [1, 2, 3]}`},
		{FormatJSON, "{\n  \"a\": null,\n  \"b\": [1, 2, 3]\n}"},
		{FormatCompact, `{"a":null,"b":[1,2,3]}`},
	}
	for _, tc := range cases {
		opts := noColorOptions(80)
		opts.Format = tc.format
		p, err := New(opts)
		if err != nil {
			t.Fatalf("%s: New failed: %v", tc.format, err)
		}
		v, err := DecodeBytes([]byte(src))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got, err := p.Render(v)
		if err != nil {
			t.Fatalf("%s: Render failed: %v", tc.format, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownNames(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		want string
	}{
		{"style", Options{Style: "no-such-style"}, "unknown style"},
		{"formatter", Options{Style: StyleNone, Formatter: "html"}, "unknown formatter"},
		{"format", Options{Style: StyleNone, Format: "yaml"}, "invalid format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNoColorDisablesHighlighting(t *testing.T) {
	p, err := New(&Options{Width: 80, NoColor: true, Style: "monokai"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Colored() {
		t.Fatalf("expected NoColor printer to be uncoloured")
	}
	p, err = New(&Options{Width: 80, Style: "monokai"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !p.Colored() {
		t.Fatalf("expected monokai printer to be coloured")
	}
}

func TestPrintNamesSourceInParseError(t *testing.T) {
	p, err := New(noColorOptions(80))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var buf bytes.Buffer
	err = p.Print(&buf, "broken.json", strings.NewReader(`{"a":`))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Source != "broken.json" {
		t.Fatalf("unexpected source %q", pe.Source)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for invalid input, got %q", buf.String())
	}
}

type closedPipe struct{}

func (closedPipe) Write([]byte) (int, error) {
	return 0, &os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}
}

func TestPrintReportsBrokenPipe(t *testing.T) {
	p, err := New(noColorOptions(80))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	err = p.Print(closedPipe{}, "<stdin>", strings.NewReader(`[1]`))
	if !IsBrokenPipe(err) {
		t.Fatalf("expected broken pipe error, got %v", err)
	}
	if IsBrokenPipe(errors.New("other")) || IsBrokenPipe(nil) {
		t.Fatalf("IsBrokenPipe matched an unrelated error")
	}
}

func TestStyleNamesIncludesNone(t *testing.T) {
	names := StyleNames()
	var none, dark bool
	for _, n := range names {
		none = none || n == StyleNone
		dark = dark || n == darkStyle
	}
	if !none || !dark {
		t.Fatalf("expected %q and %q in %v", StyleNone, darkStyle, names)
	}
}

// sgrRuns pairs every run of visible text in s with the escape sequences
// written directly before it.
func sgrRuns(s string) map[string]string {
	runs := make(map[string]string)
	var sgr, text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			runs[text.String()] = sgr.String()
			sgr.Reset()
			text.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		if strings.HasPrefix(s[i:], "\x1b[") {
			flush()
			end := strings.IndexByte(s[i:], 'm')
			if end < 0 {
				break
			}
			seq := s[i+2 : i+end]
			if seq == "0" {
				sgr.Reset()
			} else {
				sgr.WriteString(seq + ";")
			}
			i += end
			continue
		}
		text.WriteByte(s[i])
	}
	flush()
	return runs
}

func TestDefaultFormatterColoursTokensApart(t *testing.T) {
	src := []byte(`{"a": 1, "b": [true, null, "x"]}`)
	for _, style := range []string{"", darkStyle, lightStyle} {
		opts := *DefaultOptions
		opts.Style = style

		out, err := Pretty(src, &opts)
		if err != nil {
			t.Fatalf("style %q: Pretty failed: %v", style, err)
		}
		runs := sgrRuns(string(out))
		str, num := runs["'x'"], runs["1"]
		if str == "" || num == "" {
			t.Fatalf("style %q: expected coloured string and number tokens, got %q", style, out)
		}
		if str == num {
			t.Fatalf("style %q: string and number share colour %q\n%q", style, str, out)
		}
	}
}
