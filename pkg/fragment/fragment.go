// Package fragment splices raw markup into a document tree.
//
// Markup is parsed with the same parser the document context uses for whole
// templates, under a synthetic wrapper so several top-level siblings are
// accepted. The wrapper never reaches the target tree.
package fragment

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/document"
)

// AppendFragment parses markup and appends the resulting nodes, in order, as
// the last children of parent. On a parse failure parent is left unchanged.
func AppendFragment(ctx context.Context, doc *document.Context, parent *etree.Element, markup string) error {
	nodes, err := importFragment(doc, markup)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		doc.Append(parent, node)
	}
	zerolog.Ctx(ctx).Trace().Int("nodes", len(nodes)).Str("parent", parent.FullTag()).Msg("fragment appended")
	return nil
}

// InsertFragmentBefore parses markup and inserts the resulting nodes
// immediately before ref, keeping their relative order.
func InsertFragmentBefore(ctx context.Context, doc *document.Context, markup string, ref etree.Token) error {
	if ref.Parent() == nil {
		return errors.WithStack(document.ErrDetachedNode)
	}
	nodes, err := importFragment(doc, markup)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		if err := doc.InsertBefore(node, ref); err != nil {
			return err
		}
	}
	zerolog.Ctx(ctx).Trace().Int("nodes", len(nodes)).Msg("fragment inserted")
	return nil
}

// InnerMarkup serializes the children of el without el itself.
func InnerMarkup(doc *document.Context, el *etree.Element) (string, error) {
	var sb strings.Builder
	for _, child := range el.Child {
		out, err := doc.Serialize(child)
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

func importFragment(doc *document.Context, markup string) ([]etree.Token, error) {
	parsed, err := document.ParseFragment(markup)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	nodes := make([]etree.Token, 0, len(parsed))
	for _, t := range parsed {
		if imported := doc.Import(t); imported != nil {
			nodes = append(nodes, imported)
		}
	}
	return nodes, nil
}
