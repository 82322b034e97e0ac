package pipeline

import "github.com/beevik/etree"

type options struct {
	continueOnError bool
	maxDepth        int
	indent          int
	indentTabs      bool
}

func defaultOptions() options {
	return options{indent: etree.NoIndent}
}

type Option func(*options)

// WithContinueOnError leaves failing elements in place and keeps walking
// instead of aborting the render.
func WithContinueOnError(enabled bool) Option {
	return func(o *options) {
		o.continueOnError = enabled
	}
}

// WithMaxDepth bounds the element nesting the walker descends into. Zero
// means unbounded.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithIndent sets the indentation of the serialized output.
func WithIndent(spaces int, tabs bool) Option {
	return func(o *options) {
		o.indent = spaces
		o.indentTabs = tabs
	}
}
