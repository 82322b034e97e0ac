package attribute_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/gobubble/pkg/attribute"
	"github.com/walteh/gobubble/pkg/document"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want attribute.Kind
	}{
		{name: "element", want: attribute.KindElement},
		{name: "value", want: attribute.KindValue},
		{name: "class", want: attribute.KindGeneric},
		{name: "Element", want: attribute.KindGeneric},
		{name: "", want: attribute.KindGeneric},
		{name: "x:value", want: attribute.KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attribute.Classify(tt.name))
		})
	}
}

func TestNewPicksVariantByName(t *testing.T) {
	owner := document.New()

	assert.IsType(t, &attribute.Element{}, attribute.New(etree.Attr{Key: "element", Value: "div"}, owner))
	assert.IsType(t, &attribute.Value{}, attribute.New(etree.Attr{Key: "value", Value: "x"}, owner))
	assert.IsType(t, &attribute.Generic{}, attribute.New(etree.Attr{Key: "foo", Value: "bar"}, owner))
	assert.IsType(t, &attribute.Generic{}, attribute.New(etree.Attr{Space: "data", Key: "value", Value: "x"}, owner))
}

func TestValueParse(t *testing.T) {
	ctx := context.Background()
	owner := document.New()

	tests := []struct {
		raw  string
		want any
	}{
		{raw: "true", want: true},
		{raw: "false", want: false},
		{raw: "True", want: "True"},
		{raw: "Hi", want: "Hi"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			attr := attribute.NewValue(etree.Attr{Key: "value", Value: tt.raw}, owner)
			require.NoError(t, attr.Parse(ctx))
			assert.Equal(t, tt.want, attr.Value())
		})
	}
}

func TestValueSetValueSurvivesParse(t *testing.T) {
	ctx := context.Background()
	attr := attribute.NewValue(etree.Attr{Key: "value", Value: "ignored"}, document.New()).(*attribute.Value)

	attr.SetValue(42)
	require.NoError(t, attr.Parse(ctx))

	assert.Equal(t, 42, attr.Value())
	assert.Equal(t, etree.Attr{Key: "value", Value: "42"}, attr.Render(ctx))
}

func TestGenericRenderPassesThrough(t *testing.T) {
	ctx := context.Background()
	attr := attribute.NewGeneric(etree.Attr{Space: "data", Key: "id", Value: "7"}, document.New())
	require.NoError(t, attr.Parse(ctx))

	assert.Equal(t, "data:id", attr.Name())
	assert.Equal(t, "7", attr.RawValue())
	assert.Equal(t, etree.Attr{Space: "data", Key: "id", Value: "7"}, attr.Render(ctx))
}

func TestElementTag(t *testing.T) {
	ctx := context.Background()
	attr := attribute.NewElement(etree.Attr{Key: "element", Value: "section"}, document.New()).(*attribute.Element)

	assert.Empty(t, attr.Tag())
	require.NoError(t, attr.Parse(ctx))
	assert.Equal(t, "section", attr.Tag())
	assert.Equal(t, "section", attr.Value())
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "true", in: true, want: "true"},
		{name: "false", in: false, want: "false"},
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "plain", want: "plain"},
		{name: "int", in: 12, want: "12"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "stringer", in: stringer{}, want: "stringer"},
		{name: "duration", in: 2 * time.Second, want: "2s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, attribute.ToString(tt.in))
		})
	}
}

func TestAttributesKeepTheirOwner(t *testing.T) {
	owner := document.New()

	for _, attr := range []etree.Attr{
		{Key: "element", Value: "div"},
		{Key: "value", Value: "x"},
		{Key: "foo", Value: "bar"},
	} {
		t.Run(attr.Key, func(t *testing.T) {
			assert.Same(t, owner, attribute.New(attr, owner).Owner())
		})
	}
}
