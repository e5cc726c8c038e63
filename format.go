package jcat

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/pflag"
)

// Format selects the notation used to render a document.
type Format string

var _ pflag.Value = (*Format)(nil)

const (
	// FormatPython renders documents in literal notation (None, True, 'str').
	FormatPython Format = "python"
	// FormatJSON renders strict, indented JSON with short arrays kept on one line.
	FormatJSON Format = "json"
	// FormatCompact renders strict JSON on a single line.
	FormatCompact Format = "compact"
	// DefaultFormat is used when no format is specified.
	DefaultFormat Format = FormatPython
)

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{
		string(FormatPython),
		string(FormatJSON),
		string(FormatCompact),
	}
}

// String implements the pflag.Value and fmt.Stringer interfaces
func (f *Format) String() string {
	return string(*f)
}

// Set implements the pflag.Value interface
func (f *Format) Set(value string) error {
	switch Format(value) {
	case FormatPython, FormatJSON, FormatCompact:
		*f = Format(value)
	default:
		return fmt.Errorf("invalid format %q (use one of: %s)", value, strings.Join(AvailableFormats(), ", "))
	}
	return nil
}

// Type implements the pflag.Value interface
func (f *Format) Type() string {
	return "string"
}

// JSONSchemaExtend extends the JSON schema for Format
func (Format) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Type = "string"
	all := []any{}
	for _, f := range AvailableFormats() {
		all = append(all, f)
	}
	schema.Enum = all
	schema.Description = "Notation used to render documents"
}

// lexerName is the chroma lexer that understands the rendered notation.
func (f Format) lexerName() string {
	if f == FormatJSON || f == FormatCompact {
		return "json"
	}
	return "python"
}
