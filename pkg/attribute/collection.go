package attribute

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Collection is the ordered, name-unique set of attributes of one element.
// Adding a name that is already present drops the earlier entry, so the last
// write in traversal order wins and takes the later position.
type Collection struct {
	items []Attribute
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Add(attr Attribute) {
	for i, existing := range c.items {
		if existing.Name() == attr.Name() {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.items = append(c.items, attr)
}

func (c *Collection) Get(name string) (Attribute, bool) {
	for _, attr := range c.items {
		if attr.Name() == name {
			return attr, true
		}
	}
	return nil, false
}

func (c *Collection) Len() int {
	return len(c.items)
}

// All returns the attributes in insertion order.
func (c *Collection) All() []Attribute {
	out := make([]Attribute, len(c.items))
	copy(out, c.items)
	return out
}

// Parse resolves every attribute in order and stops at the first failure.
func (c *Collection) Parse(ctx context.Context) error {
	for _, attr := range c.items {
		if err := attr.Parse(ctx); err != nil {
			return errors.Errorf("parsing attribute %q: %w", attr.Name(), err)
		}
	}
	zerolog.Ctx(ctx).Trace().Int("count", len(c.items)).Msg("attributes parsed")
	return nil
}
