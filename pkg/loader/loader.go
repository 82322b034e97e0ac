package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/document"
)

const defaultIndent = 2

// Loader finds, reads and writes templates below one root directory.
type Loader struct {
	fs   afero.Fs
	root string
}

func New(fs afero.Fs, root string) *Loader {
	return &Loader{fs: fs, root: root}
}

// Find expands doublestar patterns relative to the root and returns the
// matching files, sorted and without duplicates.
func (l *Loader) Find(ctx context.Context, patterns ...string) ([]string, error) {
	fsys := afero.NewIOFS(afero.NewBasePathFs(l.fs, l.root))

	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid template pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", pattern, err)
		}
		zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("templates found")
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load parses the template at rel.
func (l *Loader) Load(ctx context.Context, rel string) (*etree.Document, error) {
	data, err := afero.ReadFile(l.fs, filepath.Join(l.root, rel))
	if err != nil {
		return nil, errors.Errorf("reading template %s: %w", rel, err)
	}
	doc, err := document.Parse(string(data))
	if err != nil {
		return nil, errors.Errorf("parsing template %s: %w", rel, err)
	}
	zerolog.Ctx(ctx).Debug().Str("template", rel).Int("bytes", len(data)).Msg("template loaded")
	return doc.Document(), nil
}

// Write stores content at dir/rel, creating parent directories.
func (l *Loader) Write(dir, rel, content string) error {
	path := filepath.Join(dir, rel)
	if err := l.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}
	if err := afero.WriteFile(l.fs, path, []byte(content), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Read returns the content at dir/rel. A missing file wraps os.ErrNotExist.
func (l *Loader) Read(dir, rel string) (string, error) {
	path := filepath.Join(dir, rel)
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Indent is the output indentation for one file.
type Indent struct {
	Spaces int
	Tabs   bool
}

// IndentFor reads indent_style and indent_size from the root .editorconfig.
// Files without a matching section get two spaces.
func (l *Loader) IndentFor(rel string) (Indent, error) {
	fallback := Indent{Spaces: defaultIndent}

	data, err := afero.ReadFile(l.fs, filepath.Join(l.root, ".editorconfig"))
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return fallback, errors.Errorf("reading .editorconfig: %w", err)
	}

	ec, err := editorconfig.Parse(bytes.NewReader(data))
	if err != nil {
		return fallback, errors.Errorf("parsing .editorconfig: %w", err)
	}
	def, err := ec.GetDefinitionForFilename(filepath.ToSlash(rel))
	if err != nil {
		return fallback, errors.Errorf("matching .editorconfig for %s: %w", rel, err)
	}

	indent := fallback
	if def.IndentStyle == editorconfig.IndentStyleTab {
		indent.Tabs = true
	}
	if size, err := strconv.Atoi(def.IndentSize); err == nil && size >= 0 {
		indent.Spaces = size
	}
	return indent, nil
}
