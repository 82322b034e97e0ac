package token

import (
	"context"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/walteh/gobubble/pkg/attribute"
	"github.com/walteh/gobubble/pkg/document"
)

const (
	TextName    = "text"
	textWrapper = "span"
)

var _ Token = (*Text)(nil)

// Text renders character data. A bare text node is produced unless a
// wrapper is requested with the element attribute or pass-through attributes
// need a host element, in which case a span is used by default.
//
//	<text>Hello</text>                 -> Hello
//	<text element="div" value="Hi"/>   -> <div>Hi</div>
//	<text foo="bar">World</text>       -> <span foo="bar">World</span>
type Text struct {
	element    *etree.Element
	doc        *document.Context
	path       string
	attributes *attribute.Collection
}

func NewText(el *etree.Element, doc *document.Context) Token {
	return &Text{
		element:    el,
		doc:        doc,
		path:       document.PathOf(el),
		attributes: attribute.NewCollection(),
	}
}

func (t *Text) Name() string                      { return TextName }
func (t *Text) Type() Phase                       { return PreParse }
func (t *Text) Path() string                      { return t.path }
func (t *Text) Attributes() *attribute.Collection { return t.attributes }

func (t *Text) Parse(ctx context.Context) error {
	ParseAttributes(ctx, t.element, t.doc, t.attributes)
	return t.attributes.Parse(ctx)
}

func (t *Text) Render(ctx context.Context) (etree.Token, error) {
	var value any = document.TextContent(t.element)

	p := partitionAttributes(t.attributes)
	if p.hasValue {
		value = p.value
	}
	content := attribute.ToString(value)

	if p.wrapper == nil && len(p.passThrough) == 0 {
		zerolog.Ctx(ctx).Debug().Str("path", t.path).Msg("text rendered as bare text")
		return t.doc.CreateText(content), nil
	}

	wrapper := textWrapper
	if p.wrapper != nil {
		wrapper = *p.wrapper
	}
	if err := checkElementName(wrapper); err != nil {
		return nil, err
	}

	el := t.doc.CreateElement(wrapper, content)
	applyAttributes(ctx, el, p.passThrough)

	zerolog.Ctx(ctx).Debug().Str("path", t.path).Str("wrapper", wrapper).Int("pass_through", len(p.passThrough)).Msg("text rendered as element")
	return el, nil
}
