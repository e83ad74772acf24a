// Package config loads c-lex settings from a YAML file and merges
// command-line overrides into them.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/fwessels/c-lex/internal/diagnostics"
	"github.com/fwessels/c-lex/internal/lexer"
	"github.com/fwessels/c-lex/internal/preprocessor"
)

// DefaultPath is read when no configuration file is named explicitly.
const DefaultPath = ".c-lex.yaml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Defines            map[string]string `yaml:"defines"`
	MaxExpansionDepth  int               `yaml:"max_expansion_depth"`
	ExpansionCacheSize int               `yaml:"expansion_cache_size"`
	Format             string            `yaml:"format"`
	Color              string            `yaml:"color"`
}

// Default returns the settings used when there is no configuration file.
func Default() *Config {
	return &Config{
		Defines:           map[string]string{},
		MaxExpansionDepth: lexer.DefaultMaxExpansionDepth,
		Format:            FormatText,
		Color:             string(diagnostics.ColorAuto),
	}
}

// Load reads the configuration at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	c, err := Parse(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(buf []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding yaml")
	}
	if c.Defines == nil {
		c.Defines = map[string]string{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.Errorf("unknown format %q, expected %q or %q", c.Format, FormatText, FormatJSON)
	}
	switch diagnostics.ColorMode(c.Color) {
	case diagnostics.ColorAuto, diagnostics.ColorAlways, diagnostics.ColorNever:
	default:
		return errors.Errorf("unknown color mode %q", c.Color)
	}
	if c.MaxExpansionDepth < 0 {
		return errors.Errorf("max_expansion_depth must not be negative, got %d", c.MaxExpansionDepth)
	}
	for name := range c.Defines {
		if !isIdentifier(name) {
			return errors.Errorf("define %q is not an identifier", name)
		}
	}
	return nil
}

// AddDefines merges NAME[=VALUE] definitions, as given with -D, over the
// configured ones.
func (c *Config) AddDefines(defs []string) error {
	for _, def := range defs {
		name, value := preprocessor.ParseDefine(def)
		if !isIdentifier(name) {
			return errors.Errorf("-D %s: %q is not an identifier", def, name)
		}
		c.Defines[name] = value
	}
	return nil
}

func (c *Config) ColorMode() diagnostics.ColorMode { return diagnostics.ColorMode(c.Color) }

// LexerOptions converts the configuration into tokenizer options.
func (c *Config) LexerOptions() lexer.Options {
	return lexer.Options{
		MaxExpansionDepth:  c.MaxExpansionDepth,
		ExpansionCacheSize: c.ExpansionCacheSize,
		Defines:            c.Defines,
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
