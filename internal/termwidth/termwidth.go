// Package termwidth works out how many columns output should be wrapped to.
package termwidth

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const (
	// EnvColumns overrides the width when no terminal can be queried.
	EnvColumns = "COLUMNS"
	// Fallback is used when nothing else yields a width.
	Fallback = 80
)

// Stream is anything backed by a file descriptor, typically *os.File.
type Stream interface {
	Fd() uintptr
}

// Prober looks up terminal geometry. The zero value is not usable; call New.
type Prober struct {
	IsTerminal func(fd uintptr) bool
	Size       func(fd uintptr) (width, height int, err error)
	LookupEnv  func(key string) (string, bool)
	Fallback   int
}

// New returns a Prober backed by the operating system.
func New() *Prober {
	return &Prober{
		IsTerminal: Interactive,
		Size: func(fd uintptr) (int, int, error) {
			return term.GetSize(int(fd))
		},
		LookupEnv: os.LookupEnv,
		Fallback:  Fallback,
	}
}

// Interactive reports whether fd refers to a terminal.
func Interactive(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Columns returns the width of the terminal behind s. ok is false when s is
// not a terminal or its size cannot be read.
func (p *Prober) Columns(s Stream) (int, bool) {
	if s == nil {
		return 0, false
	}
	fd := s.Fd()
	if !p.IsTerminal(fd) {
		return 0, false
	}
	w, _, err := p.Size(fd)
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// Source names where a probed width came from.
type Source string

const (
	FromStdout   Source = "stdout"
	FromStderr   Source = "stderr"
	FromEnv      Source = "env"
	FromFallback Source = "fallback"
)

// Probe returns the width to wrap output to. stdout is consulted first; when
// it is redirected, stderr usually still points at the terminal. Otherwise
// $COLUMNS is used, then the fallback.
func (p *Prober) Probe(stdout, stderr Stream) (int, Source) {
	if w, ok := p.Columns(stdout); ok {
		return w, FromStdout
	}
	if w, ok := p.Columns(stderr); ok {
		return w, FromStderr
	}
	if v, ok := p.LookupEnv(EnvColumns); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n, FromEnv
		}
	}
	if p.Fallback > 0 {
		return p.Fallback, FromFallback
	}
	return Fallback, FromFallback
}
