package pipeline

import (
	"context"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/gobubble/pkg/document"
	"github.com/walteh/gobubble/pkg/token"
)

var ErrMaxDepth = errors.Base("maximum template depth exceeded")

// Pipeline renders templates with the tokens of one registry. A Pipeline may
// be shared; every Render call owns its own document context.
type Pipeline struct {
	registry *token.Registry
	opts     options
}

func New(registry *token.Registry, opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{registry: registry, opts: o}
}

// Render copies template into a new document context and runs every phase
// over it. With continue-on-error the partial document is returned alongside
// the combined error.
func (p *Pipeline) Render(ctx context.Context, template *etree.Document) (*document.Context, error) {
	out := document.FromDocument(template.Copy())
	out.SetIndent(p.opts.indent, p.opts.indentTabs)

	ctx = zerolog.Ctx(ctx).With().Str("render_id", uuid.NewString()).Logger().WithContext(ctx)

	var errs error
	for _, phase := range token.Phases {
		w := &walker{
			doc:             out,
			registry:        p.registry,
			phase:           phase,
			maxDepth:        p.opts.maxDepth,
			continueOnError: p.opts.continueOnError,
		}
		err := w.walk(ctx)
		zerolog.Ctx(ctx).Debug().Str("phase", string(phase)).Int("rendered", w.rendered).Int("failed", w.failed).Msg("phase complete")
		if err == nil {
			continue
		}
		if !p.opts.continueOnError {
			return nil, errors.Errorf("rendering %s phase: %w", phase, err)
		}
		errs = multierr.Append(errs, err)
		// a later phase would hit the same depth limit again
		if errors.Is(err, ErrMaxDepth) {
			break
		}
	}

	if errs != nil {
		zerolog.Ctx(ctx).Warn().Err(errs).Int("failures", len(multierr.Errors(errs))).Msg("render finished with failures")
	}
	return out, errs
}

// RenderString parses markup, renders it, and serializes the result.
func (p *Pipeline) RenderString(ctx context.Context, markup string) (string, error) {
	src, err := document.Parse(markup)
	if err != nil {
		return "", errors.Errorf("parsing template: %w", err)
	}
	out, renderErr := p.Render(ctx, src.Document())
	if out == nil {
		return "", renderErr
	}
	str, err := out.String()
	if err != nil {
		return "", err
	}
	return str, renderErr
}

type walker struct {
	doc             *document.Context
	registry        *token.Registry
	phase           token.Phase
	maxDepth        int
	continueOnError bool

	rendered int
	failed   int
	errs     error
}

func (w *walker) walk(ctx context.Context) error {
	root := w.doc.Root()
	if root == nil {
		return nil
	}
	if err := w.visit(ctx, root, 1); err != nil {
		return multierr.Append(w.errs, err)
	}
	return w.errs
}

func (w *walker) visit(ctx context.Context, el *etree.Element, depth int) error {
	if w.maxDepth > 0 && depth > w.maxDepth {
		return errors.Errorf("%w: %s", ErrMaxDepth, document.PathOf(el))
	}

	for _, child := range el.ChildElements() {
		if err := w.visit(ctx, child, depth+1); err != nil {
			return err
		}
	}

	def, ok := w.registry.Lookup(el.FullTag())
	if !ok || def.Phase != w.phase {
		return nil
	}
	tok := def.New(el, w.doc)

	if err := w.apply(ctx, tok, el); err != nil {
		w.failed++
		if !w.continueOnError {
			return err
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("path", tok.Path()).Msg("token skipped")
		w.errs = multierr.Append(w.errs, err)
		return nil
	}
	w.rendered++
	return nil
}

func (w *walker) apply(ctx context.Context, tok token.Token, el *etree.Element) error {
	if err := tok.Parse(ctx); err != nil {
		return errors.Errorf("parsing %s token at %s: %w", tok.Name(), tok.Path(), err)
	}
	node, err := tok.Render(ctx)
	if err != nil {
		return errors.Errorf("rendering %s token at %s: %w", tok.Name(), tok.Path(), err)
	}
	if err := w.doc.Replace(el, node); err != nil {
		return errors.Errorf("substituting %s token at %s: %w", tok.Name(), tok.Path(), err)
	}
	return nil
}
