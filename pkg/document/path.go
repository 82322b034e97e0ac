package document

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"gitlab.com/tozd/go/errors"
)

// PathOf returns the structural location of el as an absolute path with a
// 1-based position among same-tag siblings at every step, e.g.
// "/page[1]/div[2]/text[1]". The path can be handed back to Resolve.
func PathOf(el *etree.Element) string {
	var segments []string
	for e := el; e != nil && !isDocumentNode(e); e = e.Parent() {
		segments = append(segments, e.FullTag()+"["+strconv.Itoa(sameTagPosition(e))+"]")
	}
	if len(segments) == 0 {
		return "/"
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/")
}

// Resolve finds the element at a path produced by PathOf.
func (c *Context) Resolve(path string) (*etree.Element, error) {
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil, errors.Errorf("compiling path %q: %w", path, err)
	}
	el := c.doc.FindElementPath(p)
	if el == nil {
		return nil, errors.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return el, nil
}

func isDocumentNode(e *etree.Element) bool {
	return e.Parent() == nil && e.Tag == ""
}

func sameTagPosition(e *etree.Element) int {
	parent := e.Parent()
	if parent == nil {
		return 1
	}
	pos := 0
	for _, sibling := range parent.ChildElements() {
		if sibling.FullTag() == e.FullTag() {
			pos++
		}
		if sibling == e {
			break
		}
	}
	return pos
}
