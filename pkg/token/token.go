package token

import (
	"context"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/walteh/gobubble/pkg/attribute"
	"github.com/walteh/gobubble/pkg/document"
)

// Phase tells the walker in which pass a token is eligible to run.
type Phase string

const (
	PreParse  Phase = "pre-parse"
	PostParse Phase = "post-parse"
)

// Phases lists every phase in execution order.
var Phases = []Phase{PreParse, PostParse}

// Token is bound to one template element for its whole lifetime. Parse must
// complete before Render; callers own that sequencing.
type Token interface {
	Name() string
	Type() Phase
	// Path is the structural location of the bound element, see document.PathOf.
	Path() string
	Attributes() *attribute.Collection
	Parse(ctx context.Context) error
	// Render builds the node that replaces the bound element. It never mutates
	// the bound element; every side effect stays on the nodes it creates.
	Render(ctx context.Context) (etree.Token, error)
}

// Constructor binds a new token to el. doc owns the output tree.
type Constructor func(el *etree.Element, doc *document.Context) Token

// ParseAttributes classifies every attribute of el by name, in source order,
// and adds it to coll. Unknown names become generic attributes.
func ParseAttributes(ctx context.Context, el *etree.Element, doc *document.Context, coll *attribute.Collection) {
	for _, attr := range el.Attr {
		coll.Add(attribute.New(attr, doc))
	}
	zerolog.Ctx(ctx).Trace().Str("element", el.FullTag()).Int("attributes", len(el.Attr)).Msg("attributes classified")
}

type partition struct {
	wrapper     *string
	value       any
	hasValue    bool
	passThrough []attribute.Attribute
}

// partitionAttributes splits attributes into the wrapper request, the value
// override and the ordered pass-through buffer. Later element and value
// attributes win over earlier ones.
func partitionAttributes(coll *attribute.Collection) partition {
	var p partition
	for _, attr := range coll.All() {
		switch attr.Kind() {
		case attribute.KindElement:
			tag := attribute.ToString(attr.Value())
			p.wrapper = &tag
		case attribute.KindValue:
			p.value = attr.Value()
			p.hasValue = true
		default:
			p.passThrough = append(p.passThrough, attr)
		}
	}
	return p
}

func applyAttributes(ctx context.Context, el *etree.Element, attrs []attribute.Attribute) {
	for _, attr := range attrs {
		rendered := attr.Render(ctx)
		el.CreateAttr(rendered.FullKey(), rendered.Value)
	}
}
