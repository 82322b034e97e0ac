package attribute

import (
	"context"

	"github.com/beevik/etree"

	"github.com/walteh/gobubble/pkg/document"
)

var (
	_ Attribute = (*Element)(nil)
	_ Attribute = (*Value)(nil)
	_ Attribute = (*Generic)(nil)
)

// Element carries the name of the wrapper tag.
type Element struct {
	attr  etree.Attr
	owner *document.Context
	tag   string
}

func NewElement(attr etree.Attr, owner *document.Context) Attribute {
	return &Element{attr: attr, owner: owner}
}

func (a *Element) Name() string             { return a.attr.FullKey() }
func (a *Element) RawValue() string         { return a.attr.Value }
func (a *Element) Kind() Kind               { return KindElement }
func (a *Element) Owner() *document.Context { return a.owner }
func (a *Element) Value() any               { return a.tag }

// Tag returns the requested wrapper tag. Empty before Parse.
func (a *Element) Tag() string { return a.tag }

func (a *Element) Parse(ctx context.Context) error {
	a.tag = a.attr.Value
	return nil
}

func (a *Element) Render(ctx context.Context) etree.Attr {
	return renderPair(a.attr, a.tag)
}

// Value overrides the content of a token. Raw "true" and "false" resolve to
// booleans; anything else stays a string unless a host binds a typed value
// with SetValue.
type Value struct {
	attr  etree.Attr
	owner *document.Context
	value any
	bound bool
}

func NewValue(attr etree.Attr, owner *document.Context) Attribute {
	return &Value{attr: attr, owner: owner}
}

func (a *Value) Name() string             { return a.attr.FullKey() }
func (a *Value) RawValue() string         { return a.attr.Value }
func (a *Value) Kind() Kind               { return KindValue }
func (a *Value) Owner() *document.Context { return a.owner }
func (a *Value) Value() any               { return a.value }

// SetValue binds a typed value that survives Parse.
func (a *Value) SetValue(v any) {
	a.value = v
	a.bound = true
}

func (a *Value) Parse(ctx context.Context) error {
	if a.bound {
		return nil
	}
	switch a.attr.Value {
	case "true":
		a.value = true
	case "false":
		a.value = false
	default:
		a.value = a.attr.Value
	}
	return nil
}

func (a *Value) Render(ctx context.Context) etree.Attr {
	return renderPair(a.attr, ToString(a.value))
}

// Generic is opaque and passes through unchanged.
type Generic struct {
	attr  etree.Attr
	owner *document.Context
	value string
}

func NewGeneric(attr etree.Attr, owner *document.Context) Attribute {
	return &Generic{attr: attr, owner: owner}
}

func (a *Generic) Name() string             { return a.attr.FullKey() }
func (a *Generic) RawValue() string         { return a.attr.Value }
func (a *Generic) Kind() Kind               { return KindGeneric }
func (a *Generic) Owner() *document.Context { return a.owner }
func (a *Generic) Value() any               { return a.value }

func (a *Generic) Parse(ctx context.Context) error {
	a.value = a.attr.Value
	return nil
}

func (a *Generic) Render(ctx context.Context) etree.Attr {
	return renderPair(a.attr, a.value)
}
