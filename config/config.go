// Package config loads encoder configuration from YAML files.
//
// The file mirrors the encoder options:
//
//	url: http://localhost/
//	entities:
//	  - Article
//	  - Author: Writer      # declared as Author, backed by the Writer entity
//	meta:
//	  version: "1.0"
//	json_options: [tag, apos, amp, quot]   # or false to disable escaping
//	development_mode: true
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/jsonapi"
)

// ErrInvalidConfig is returned for malformed configuration files.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the file form of the encoder options.
type Config struct {
	URL             string         `yaml:"url"`
	Entities        []Entity       `yaml:"entities"`
	Meta            map[string]any `yaml:"meta"`
	JSONOptions     Escape         `yaml:"json_options"`
	DevelopmentMode bool           `yaml:"development_mode"`
}

// Entity is one entry of the entities list. It is written either as a bare
// name, as a single-key mapping "Name: Alias", or as {name: ..., as: ...}.
type Entity struct {
	Name string `yaml:"name"`
	As   string `yaml:"as,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Entity) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		e.Name = n.Value
		return nil
	case yaml.MappingNode:
		if len(n.Content) == 2 && n.Content[0].Value != "name" && n.Content[0].Value != "as" {
			e.Name = n.Content[0].Value
			e.As = n.Content[1].Value
			return nil
		}
		type plain Entity
		return n.Decode((*plain)(e))
	}
	return fmt.Errorf("%w: line %d: entity must be a name or a mapping", ErrInvalidConfig, n.Line)
}

// Escape is the json_options value. It accepts false (no escaping), true
// (default escaping), an integer bit set, or a list of flag names.
type Escape jsonapi.EscapeFlags

var escapeNames = map[string]jsonapi.EscapeFlags{
	"tag":   jsonapi.EscapeTag,
	"apos":  jsonapi.EscapeApos,
	"amp":   jsonapi.EscapeAmp,
	"quot":  jsonapi.EscapeQuot,
	"slash": jsonapi.EscapeSlash,
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *Escape) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var b bool
		if err := n.Decode(&b); err == nil {
			if b {
				*e = Escape(jsonapi.EscapeDefault)
			} else {
				*e = Escape(jsonapi.EscapeNone)
			}
			return nil
		}
		var i uint16
		if err := n.Decode(&i); err != nil {
			return fmt.Errorf("%w: line %d: json_options must be a bool, an integer or a list", ErrInvalidConfig, n.Line)
		}
		*e = Escape(i)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := n.Decode(&names); err != nil {
			return err
		}
		var flags jsonapi.EscapeFlags
		for _, name := range names {
			f, ok := escapeNames[strings.ToLower(name)]
			if !ok {
				return fmt.Errorf("%w: line %d: unknown json option %q", ErrInvalidConfig, n.Line, name)
			}
			flags |= f
		}
		if flags == 0 {
			flags = jsonapi.EscapeNone
		}
		*e = Escape(flags)
		return nil
	}
	return fmt.Errorf("%w: line %d: json_options must be a bool, an integer or a list", ErrInvalidConfig, n.Line)
}

// Parse parses a YAML configuration.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for i, ent := range cfg.Entities {
		if ent.Name == "" {
			return nil, fmt.Errorf("%w: entity %d has no name", ErrInvalidConfig, i)
		}
	}
	return cfg, nil
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Options returns the encoder options described by c.
func (c *Config) Options() []jsonapi.Option {
	opts := []jsonapi.Option{
		jsonapi.WithURL(c.URL),
		jsonapi.WithDevelopmentMode(c.DevelopmentMode),
	}
	for _, ent := range c.Entities {
		opts = append(opts, jsonapi.WithEntity(jsonapi.Entity{Name: ent.Name, As: ent.As}))
	}
	if len(c.Meta) > 0 {
		opts = append(opts, jsonapi.WithMeta(jsonapi.Meta(c.Meta)))
	}
	if c.JSONOptions != 0 {
		opts = append(opts, jsonapi.WithEscape(jsonapi.EscapeFlags(c.JSONOptions)))
	}
	return opts
}

// NewEncoder builds an encoder from c. Extra options are applied after the
// configured ones.
func (c *Config) NewEncoder(catalog *jsonapi.Catalog, extra ...jsonapi.Option) (*jsonapi.Encoder, error) {
	return jsonapi.NewEncoder(catalog, append(c.Options(), extra...)...)
}
