package attribute

import (
	"context"

	"github.com/beevik/etree"

	"github.com/walteh/gobubble/pkg/document"
)

// Kind classifies an attribute by its name.
type Kind string

const (
	// KindElement names the wrapper tag a token renders into.
	KindElement Kind = "element"
	// KindValue overrides the textual content of a token.
	KindValue Kind = "value"
	// KindGeneric is re-emitted verbatim on the rendered node.
	KindGeneric Kind = "generic"
)

// Attribute is a typed interpretation of one source attribute.
type Attribute interface {
	// Name returns the attribute name as written in the source, including any
	// namespace prefix.
	Name() string
	RawValue() string
	Kind() Kind
	// Owner returns the document context the attribute was built for.
	Owner() *document.Context
	// Value returns the value resolved by Parse.
	Value() any
	Parse(ctx context.Context) error
	// Render returns the name/value pair to emit on an output node.
	Render(ctx context.Context) etree.Attr
}

// Constructor builds an attribute bound to attr. owner is the document
// context used for any node creation the attribute performs.
type Constructor func(attr etree.Attr, owner *document.Context) Attribute

var constructors = map[string]Constructor{
	string(KindElement): NewElement,
	string(KindValue):   NewValue,
}

// Classify reports the kind an attribute name resolves to. Unknown names are
// always KindGeneric.
func Classify(name string) Kind {
	if _, ok := constructors[name]; ok {
		return Kind(name)
	}
	return KindGeneric
}

// New builds the attribute variant matching attr's name.
func New(attr etree.Attr, owner *document.Context) Attribute {
	if ctor, ok := constructors[attr.FullKey()]; ok {
		return ctor(attr, owner)
	}
	return NewGeneric(attr, owner)
}

func renderPair(attr etree.Attr, value string) etree.Attr {
	return etree.Attr{Space: attr.Space, Key: attr.Key, Value: value}
}
