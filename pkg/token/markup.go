package token

import (
	"context"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/attribute"
	"github.com/walteh/gobubble/pkg/document"
	"github.com/walteh/gobubble/pkg/fragment"
)

const (
	MarkupName    = "markup"
	markupWrapper = "div"
)

var _ Token = (*Markup)(nil)

// Markup splices raw markup into a wrapper element. The markup comes from
// the value attribute when present, otherwise from the element's own
// children.
//
//	<markup value="&lt;b&gt;x&lt;/b&gt;"/>  -> <div><b>x</b></div>
//	<markup element="p"><i>y</i></markup>    -> <p><i>y</i></p>
type Markup struct {
	element    *etree.Element
	doc        *document.Context
	path       string
	attributes *attribute.Collection
}

func NewMarkup(el *etree.Element, doc *document.Context) Token {
	return &Markup{
		element:    el,
		doc:        doc,
		path:       document.PathOf(el),
		attributes: attribute.NewCollection(),
	}
}

func (t *Markup) Name() string                      { return MarkupName }
func (t *Markup) Type() Phase                       { return PreParse }
func (t *Markup) Path() string                      { return t.path }
func (t *Markup) Attributes() *attribute.Collection { return t.attributes }

func (t *Markup) Parse(ctx context.Context) error {
	ParseAttributes(ctx, t.element, t.doc, t.attributes)
	return t.attributes.Parse(ctx)
}

func (t *Markup) Render(ctx context.Context) (etree.Token, error) {
	p := partitionAttributes(t.attributes)

	var src string
	if p.hasValue {
		src = attribute.ToString(p.value)
	} else {
		inner, err := fragment.InnerMarkup(t.doc, t.element)
		if err != nil {
			return nil, errors.Errorf("reading inner markup: %w", err)
		}
		src = inner
	}

	wrapper := markupWrapper
	if p.wrapper != nil {
		wrapper = *p.wrapper
	}
	if err := checkElementName(wrapper); err != nil {
		return nil, err
	}

	el := t.doc.CreateElement(wrapper, "")
	applyAttributes(ctx, el, p.passThrough)
	if err := fragment.AppendFragment(ctx, t.doc, el, src); err != nil {
		return nil, errors.Errorf("injecting markup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", t.path).Str("wrapper", wrapper).Msg("markup rendered")
	return el, nil
}
