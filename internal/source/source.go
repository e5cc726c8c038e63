// Package source turns command line arguments into the inputs to print.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// StdinMarker is the argument that selects standard input.
const StdinMarker = "-"

// StdinName is how standard input is named in messages.
const StdinName = "<stdin>"

// Source is one input: a file path or standard input.
type Source struct {
	Path string
}

// Stdin is the standard input source.
var Stdin = Source{Path: StdinMarker}

// IsStdin reports whether s reads standard input.
func (s Source) IsStdin() bool {
	return s.Path == StdinMarker
}

// Name returns the path, or StdinName for standard input.
func (s Source) Name() string {
	if s.IsStdin() {
		return StdinName
	}
	return s.Path
}

// Open returns a reader for s. Standard input is returned as is and closing
// it is a no-op.
func (s Source) Open(fsys afero.Fs, stdin io.Reader) (io.ReadCloser, error) {
	if s.IsStdin() {
		return io.NopCloser(stdin), nil
	}
	f, err := fsys.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	return f, nil
}

// Invalid describes an argument that does not name a regular file.
type Invalid struct {
	Path   string
	Reason string
}

// ValidationError lists every argument that does not name a regular file.
type ValidationError struct {
	Invalid []Invalid
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Invalid))
	for _, inv := range e.Invalid {
		parts = append(parts, fmt.Sprintf("%s (%s)", inv.Path, inv.Reason))
	}
	if len(parts) == 1 {
		return "not a file: " + parts[0]
	}
	return "not files: " + strings.Join(parts, ", ")
}

// Resolve validates args and returns the sources to read in order. No
// arguments means a single standard input source. Every argument other than
// "-" must name an existing regular file; otherwise a *ValidationError
// naming all offenders is returned and nothing should be read.
func Resolve(fsys afero.Fs, args []string) ([]Source, error) {
	if len(args) == 0 {
		return []Source{Stdin}, nil
	}
	var invalid []Invalid
	sources := make([]Source, 0, len(args))
	for _, arg := range args {
		if arg == StdinMarker {
			sources = append(sources, Stdin)
			continue
		}
		fi, err := fsys.Stat(arg)
		switch {
		case err != nil:
			invalid = append(invalid, Invalid{Path: arg, Reason: reason(err)})
		case !fi.Mode().IsRegular():
			r := "not a regular file"
			if fi.IsDir() {
				r = "is a directory"
			}
			invalid = append(invalid, Invalid{Path: arg, Reason: r})
		default:
			sources = append(sources, Source{Path: arg})
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Invalid: invalid}
	}
	return sources, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "no such file"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	default:
		return err.Error()
	}
}
