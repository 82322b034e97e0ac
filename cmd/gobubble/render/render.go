package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/gobubble/pkg/config"
	"github.com/walteh/gobubble/pkg/diff"
	"github.com/walteh/gobubble/pkg/loader"
	"github.com/walteh/gobubble/pkg/logging"
	"github.com/walteh/gobubble/pkg/pipeline"
	"github.com/walteh/gobubble/pkg/token"
)

type Handler struct {
	fs afero.Fs

	configPath      string
	dir             string
	outDir          string
	check           bool
	continueOnError bool
	maxDepth        int
	logLevel        string
	logFormat       string
	patterns        []string

	stdout io.Writer
	stderr io.Writer
	flags  interface{ Changed(string) bool }
}

func NewRenderCommand(fs afero.Fs) *cobra.Command {
	me := &Handler{fs: fs}

	cmd := &cobra.Command{
		Use:          "render [pattern...]",
		Short:        "render the templates matching the configured or given globs",
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "path to a YAML or HCL config file")
	cmd.Flags().StringVar(&me.dir, "dir", ".", "directory the template globs are relative to")
	cmd.Flags().StringVar(&me.outDir, "out", "", "output directory, stdout when empty")
	cmd.Flags().BoolVar(&me.check, "check", false, "diff rendered output against --out instead of writing it")
	cmd.Flags().BoolVar(&me.continueOnError, "continue-on-error", false, "leave failing tokens in place and keep rendering")
	cmd.Flags().IntVar(&me.maxDepth, "max-depth", 0, "maximum element nesting, 0 for unbounded")
	cmd.Flags().StringVar(&me.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&me.logFormat, "log-format", string(logging.FormatConsole), "log format (console, json)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.patterns = args
		me.stdout = cmd.OutOrStdout()
		me.stderr = cmd.ErrOrStderr()
		me.flags = cmd.Flags()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	cfg, err := me.config()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	ctx, err = logging.WithLogger(ctx, me.stderr, logging.Options{Level: level, Format: logging.Format(me.logFormat)})
	if err != nil {
		return err
	}

	registry, err := cfg.Registry()
	if err != nil {
		return errors.Errorf("building token registry: %w", err)
	}

	if me.check && me.outDir == "" {
		return errors.New("--check needs an output directory")
	}

	l := loader.New(me.fs, me.dir)
	files, err := l.Find(ctx, cfg.Templates...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no templates match %s", strings.Join(cfg.Templates, ", "))
	}

	var errs error
	stale := 0
	for _, rel := range files {
		changed, err := me.renderFile(ctx, l, cfg, registry, rel)
		if changed {
			stale++
		}
		if err != nil {
			if !cfg.ContinueOnError {
				return err
			}
			errs = multierr.Append(errs, err)
		}
	}

	if errs != nil {
		return errors.Errorf("%d template(s) failed: %w", len(multierr.Errors(errs)), errs)
	}
	if me.check && stale > 0 {
		return errors.Errorf("%d output(s) out of date", stale)
	}
	zerolog.Ctx(ctx).Info().Int("templates", len(files)).Msg("render complete")
	return nil
}

func (me *Handler) renderFile(ctx context.Context, l *loader.Loader, cfg *config.Config, registry *token.Registry, rel string) (bool, error) {
	ctx = zerolog.Ctx(ctx).With().Str("template", rel).Logger().WithContext(ctx)

	indent, err := me.indent(l, cfg, rel)
	if err != nil {
		return false, err
	}

	tmpl, err := l.Load(ctx, rel)
	if err != nil {
		return false, err
	}

	p := pipeline.New(registry,
		pipeline.WithContinueOnError(cfg.ContinueOnError),
		pipeline.WithMaxDepth(cfg.MaxDepth),
		pipeline.WithIndent(indent.Spaces, indent.Tabs),
	)

	out, renderErr := p.Render(ctx, tmpl)
	if out == nil {
		return false, errors.Errorf("rendering %s: %w", rel, renderErr)
	}

	content, err := out.String()
	if err != nil {
		return false, errors.Errorf("serializing %s: %w", rel, err)
	}

	changed, err := me.emit(ctx, l, rel, content)
	if err != nil {
		return changed, err
	}

	if renderErr != nil {
		return changed, errors.Errorf("rendering %s: %w", rel, renderErr)
	}
	return changed, nil
}

// emit writes content to stdout or the output directory. In check mode it
// prints a diff instead and reports whether the output on disk is stale.
func (me *Handler) emit(ctx context.Context, l *loader.Loader, rel, content string) (bool, error) {
	if me.outDir == "" {
		if _, err := fmt.Fprintln(me.stdout, strings.TrimRight(content, "\n")); err != nil {
			return false, errors.Errorf("writing %s to stdout: %w", rel, err)
		}
		return false, nil
	}

	dir := me.outDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(me.dir, dir)
	}
	name := OutputName(rel)

	if !me.check {
		return false, l.Write(dir, name, content)
	}

	existing, err := l.Read(dir, name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	d, err := diff.Unified(name, existing, content)
	if err != nil {
		return false, err
	}
	if d == "" {
		return false, nil
	}
	zerolog.Ctx(ctx).Warn().Str("output", name).Msg("output out of date")
	if _, err := fmt.Fprint(me.stdout, d); err != nil {
		return true, errors.Errorf("writing diff for %s: %w", rel, err)
	}
	return true, nil
}

func (me *Handler) indent(l *loader.Loader, cfg *config.Config, rel string) (loader.Indent, error) {
	if cfg.Indent != nil {
		return loader.Indent{Spaces: cfg.Indent.Size, Tabs: cfg.Indent.Tabs}, nil
	}
	return l.IndentFor(rel)
}

// config loads the config file, if any, and lets explicitly set flags and
// positional patterns override it.
func (me *Handler) config() (*config.Config, error) {
	cfg := config.Default()
	if me.configPath != "" {
		loaded, err := config.Load(me.fs, me.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if len(me.patterns) > 0 {
		cfg.Templates = me.patterns
	}
	if me.changed("out") || cfg.OutDir == "" {
		cfg.OutDir = me.outDir
	}
	me.outDir = cfg.OutDir
	if me.changed("continue-on-error") {
		cfg.ContinueOnError = me.continueOnError
	}
	if me.changed("max-depth") {
		cfg.MaxDepth = me.maxDepth
	}
	if me.logLevel != "" {
		cfg.LogLevel = me.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (me *Handler) changed(flag string) bool {
	return me.flags != nil && me.flags.Changed(flag)
}

// OutputName drops the .tmpl marker: pages/index.tmpl.xml -> pages/index.xml.
func OutputName(rel string) string {
	ext := filepath.Ext(rel)
	base := strings.TrimSuffix(rel, ext)
	return strings.TrimSuffix(base, ".tmpl") + ext
}
