package config_test

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gobubble/pkg/config"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		content     string
		expectError string
		validate    func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "yaml",
			path: "gobubble.yaml",
			content: `
templates:
  - "pages/**/*.xml"
out_dir: dist
continue_on_error: true
max_depth: 64
log_level: debug
tokens: [text]
indent:
  size: 4
`,
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []string{"pages/**/*.xml"}, cfg.Templates)
				assert.Equal(t, "dist", cfg.OutDir)
				assert.True(t, cfg.ContinueOnError)
				assert.Equal(t, 64, cfg.MaxDepth)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, []string{"text"}, cfg.Tokens)
				require.NotNil(t, cfg.Indent)
				assert.Equal(t, 4, cfg.Indent.Size)
				assert.False(t, cfg.Indent.Tabs)

				registry, err := cfg.Registry()
				require.NoError(t, err)
				assert.Equal(t, []string{"text"}, registry.Names())
			},
		},
		{
			name: "hcl",
			path: "gobubble.hcl",
			content: `
templates = ["pages/**/*.xml"]
out_dir = "dist"
continue_on_error = true
max_depth = 64

indent {
  tabs = true
}
`,
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, []string{"pages/**/*.xml"}, cfg.Templates)
				assert.Equal(t, "dist", cfg.OutDir)
				assert.True(t, cfg.ContinueOnError)
				assert.Equal(t, 64, cfg.MaxDepth)
				require.NotNil(t, cfg.Indent)
				assert.True(t, cfg.Indent.Tabs)

				registry, err := cfg.Registry()
				require.NoError(t, err)
				assert.Equal(t, []string{"markup", "text"}, registry.Names())
			},
		},
		{
			name:    "default templates",
			path:    "empty.yml",
			content: "out_dir: out\n",
			validate: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Default().Templates, cfg.Templates)
				assert.Nil(t, cfg.Indent)
			},
		},
		{
			name:        "unknown yaml field",
			path:        "bad.yaml",
			content:     "template: x\n",
			expectError: "parsing YAML",
		},
		{
			name:        "broken hcl",
			path:        "bad.hcl",
			content:     "templates = [",
			expectError: "parsing HCL",
		},
		{
			name:        "hcl type mismatch",
			path:        "bad.hcl",
			content:     `max_depth = "deep"`,
			expectError: "decoding HCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.path, []byte(tt.content), 0o644))

			cfg, err := config.Load(fs, tt.path)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(afero.NewMemMapFs(), "nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := &config.Config{
		Templates: []string{" "},
		MaxDepth:  -1,
		Tokens:    []string{"text", "loop"},
		Indent:    &config.Indent{Size: -2},
	}

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.Contains(t, err.Error(), `unknown token "loop"`)
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}
