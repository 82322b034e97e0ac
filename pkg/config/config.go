package config

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/gobubble/pkg/token"
)

// Config drives the render command. Flags override file values.
type Config struct {
	// Templates are doublestar globs relative to the working directory.
	Templates       []string `yaml:"templates" hcl:"templates,optional"`
	OutDir          string   `yaml:"out_dir,omitempty" hcl:"out_dir,optional"`
	ContinueOnError bool     `yaml:"continue_on_error,omitempty" hcl:"continue_on_error,optional"`
	MaxDepth        int      `yaml:"max_depth,omitempty" hcl:"max_depth,optional"`
	LogLevel        string   `yaml:"log_level,omitempty" hcl:"log_level,optional"`
	// Tokens restricts rendering to the named tokens. Empty means all.
	Tokens []string `yaml:"tokens,omitempty" hcl:"tokens,optional"`
	Indent *Indent  `yaml:"indent,omitempty" hcl:"indent,block"`
}

// Indent overrides the indentation found in .editorconfig.
type Indent struct {
	Size int  `yaml:"size" hcl:"size,optional"`
	Tabs bool `yaml:"tabs,omitempty" hcl:"tabs,optional"`
}

func Default() *Config {
	return &Config{Templates: []string{"**/*.tmpl.xml"}}
}

// Load reads a YAML (.yaml, .yml) or HCL (anything else) config file.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	default:
		cfg, err = parseHCL(data, path)
	}
	if err != nil {
		return nil, err
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = Default().Templates
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func parseHCL(data []byte, path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, ctx, &cfg); diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	for _, pattern := range c.Templates {
		if strings.TrimSpace(pattern) == "" {
			result = multierror.Append(result, errors.New("templates: empty pattern"))
		}
	}
	if c.MaxDepth < 0 {
		result = multierror.Append(result, errors.Errorf("max_depth: must not be negative, got %d", c.MaxDepth))
	}
	if c.Indent != nil && c.Indent.Size < 0 {
		result = multierror.Append(result, errors.Errorf("indent.size: must not be negative, got %d", c.Indent.Size))
	}
	if len(c.Tokens) > 0 {
		if _, err := token.DefaultRegistry().Subset(c.Tokens...); err != nil {
			result = multierror.Append(result, errors.Errorf("tokens: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// Registry returns the token registry the config allows.
func (c *Config) Registry() (*token.Registry, error) {
	if len(c.Tokens) == 0 {
		return token.DefaultRegistry(), nil
	}
	return token.DefaultRegistry().Subset(c.Tokens...)
}
