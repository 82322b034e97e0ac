/*
Package pipeline walks a template and substitutes every registered token
element with the node its token renders.

	  template (*etree.Document)
	         |
	   deep copy into a fresh document.Context
	         |
	         v
	+-----------------+    phase: pre-parse
	| depth-first     | -------------------+
	| post-order walk |    phase: post-parse|
	+-----------------+ <------------------+
	         |
	  registry.Lookup(tag) -> token.New(el, doc)
	         |
	  tok.Parse(ctx) -> tok.Render(ctx) -> doc.Replace(el, node)
	         |
	         v
	  *document.Context (serialize with String)

The template is never mutated. Children are visited before their parent, so
a token reads content whose nested tokens have already been rendered; nodes
produced by a render are not walked again in the same pass. Elements whose
tag is not registered are left untouched.

A failed Parse or Render aborts the whole render by default. With
WithContinueOnError the failing element stays in place, the walk goes on, and
the partial document is returned with every failure combined into one error.
*/
package pipeline
