package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/spf13/afero"
	"github.com/xeipuuv/gojsonschema"

	"pkt.systems/jcat"
)

// Config is the user configuration file. Unset fields leave the built-in
// defaults alone.
type Config struct {
	Width     *int        `json:"width,omitempty" jsonschema:"minimum=1,description=Column width to wrap to instead of the terminal width"`
	Indent    *int        `json:"indent,omitempty" jsonschema:"minimum=0,description=Columns of indentation per nesting level"`
	SortKeys  *bool       `json:"sort-keys,omitempty" jsonschema:"description=Sort object keys"`
	Format    jcat.Format `json:"format,omitempty"`
	Style     string      `json:"style,omitempty" jsonschema:"description=Highlighting style or none"`
	Formatter string      `json:"formatter,omitempty" jsonschema:"description=Terminal formatter such as terminal16 or terminal256"`
	Unwrap    *bool       `json:"unwrap,omitempty" jsonschema:"description=Decode JSON found inside string values"`
	PlainCopy *bool       `json:"plain-copy,omitempty" jsonschema:"description=Also print an uncoloured copy when no terminal is attached"`
}

// Load reads the config file at path from fsys. When the file does not
// exist and missingOK is set, an empty config is returned.
func Load(fsys afero.Fs, path string, missingOK bool) (*Config, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if missingOK && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses and validates a config document.
func Read(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Apply copies every set field onto opts.
func (c *Config) Apply(opts *jcat.Options) {
	if c.Width != nil {
		opts.Width = *c.Width
	}
	if c.Indent != nil {
		opts.Indent = *c.Indent
	}
	if c.SortKeys != nil {
		opts.SortKeys = *c.SortKeys
	}
	if c.Format != "" {
		opts.Format = c.Format
	}
	if c.Style != "" {
		opts.Style = c.Style
	}
	if c.Formatter != "" {
		opts.Formatter = c.Formatter
	}
	if c.Unwrap != nil {
		opts.Unwrap = *c.Unwrap
	}
	if c.PlainCopy != nil {
		opts.PlainCopy = *c.PlainCopy
	}
}

// Schema returns the JSON schema for the Config type
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&Config{})
}

// Every validation uses the same schema, only calculate it once.
var schemaOnce = sync.OnceValues(func() (string, error) {
	b, err := json.Marshal(Schema())
	return string(b), err
})

// validate checks a decoded config document against the JSON schema.
func validate(doc any) error {
	schema, err := schemaOnce()
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var resErr error
	for _, err := range result.Errors() {
		resErr = errors.Join(resErr, errors.New(err.String()))
	}
	return fmt.Errorf("invalid config file: %w", resErr)
}
