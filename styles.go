package jcat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

const (
	// StyleNone disables colouring.
	StyleNone = "none"
	// DefaultFormatter emits the 256 colour palette, which keeps the token
	// colours of the default styles apart.
	DefaultFormatter = "terminal256"

	darkStyle  = "tokyonight-moon"
	lightStyle = "tokyonight-day"
)

// StyleNames returns the sorted list of highlighting styles, including "none".
func StyleNames() []string {
	names := append(styles.Names(), StyleNone)
	sort.Strings(names)
	return names
}

// FormatterNames returns the terminal formatters accepted by Options.Formatter.
func FormatterNames() []string {
	var names []string
	for _, name := range formatters.Names() {
		if strings.HasPrefix(name, "terminal") {
			names = append(names, name)
		}
	}
	return names
}

// DefaultStyle picks a style that suits the background colour of the
// terminal attached to standard output.
func DefaultStyle() string {
	if lipgloss.HasDarkBackground() {
		return darkStyle
	}
	return lightStyle
}

// resolveStyle returns the chroma style for name, defaulting to DefaultStyle
// when name is empty. The special name "none" disables colouring and yields
// a nil style.
func resolveStyle(name string) (*chroma.Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultStyle()
	}
	if name == StyleNone {
		return nil, nil
	}
	s, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown style %q (use one of: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return s, nil
}

func resolveFormatter(name string) (chroma.Formatter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultFormatter
	}
	for _, n := range FormatterNames() {
		if n == name {
			return formatters.Get(name), nil
		}
	}
	return nil, fmt.Errorf("unknown formatter %q (use one of: %s)", name, strings.Join(FormatterNames(), ", "))
}
