package document

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/beevik/etree"
	"gitlab.com/tozd/go/errors"
)

// Context owns one output tree for one render pass. It is not safe for
// concurrent use; render independent templates with independent contexts.
type Context struct {
	doc *etree.Document

	indent     int
	indentTabs bool
}

// New creates a context around an empty document.
func New() *Context {
	return &Context{doc: etree.NewDocument(), indent: etree.NoIndent}
}

// FromDocument wraps an existing document. The context takes ownership of doc.
func FromDocument(doc *etree.Document) *Context {
	if doc == nil {
		doc = etree.NewDocument()
	}
	return &Context{doc: doc, indent: etree.NoIndent}
}

// Parse reads markup into a new context. Malformed markup returns a
// *MarkupSyntaxError.
func Parse(markup string) (*Context, error) {
	doc, err := readDocument(markup)
	if err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, &MarkupSyntaxError{Input: markup, Err: errors.New("document has no root element")}
	}
	return FromDocument(doc), nil
}

// ParseFragment parses markup that may hold any number of top-level siblings
// by reading it under a synthetic wrapper element. The returned tokens still
// belong to the transient wrapper and must be imported before use.
func ParseFragment(markup string) ([]etree.Token, error) {
	doc, err := read("<" + fragmentWrapper + ">" + markup + "</" + fragmentWrapper + ">")
	if err != nil {
		return nil, &MarkupSyntaxError{Input: markup, Err: err}
	}
	return doc.Root().Child, nil
}

const fragmentWrapper = "wrapper"

func readDocument(markup string) (*etree.Document, error) {
	doc, err := read(markup)
	if err != nil {
		return nil, &MarkupSyntaxError{Input: markup, Err: err}
	}
	return doc, nil
}

func read(markup string) (*etree.Document, error) {
	if err := checkWellFormed(markup); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkWellFormed rejects unbalanced or mismatched tags, which etree's raw
// token reader lets through, and anything but whitespace, comments and
// processing instructions next to the single root element.
func checkWellFormed(markup string) error {
	dec := xml.NewDecoder(strings.NewReader(markup))
	depth := 0
	roots := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return errors.Errorf("extra element <%s> after the root element", t.Name.Local)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return errors.Errorf("text %q outside the root element", string(bytes.TrimSpace(t)))
			}
		}
	}
}

// Document exposes the wrapped tree.
func (c *Context) Document() *etree.Document {
	return c.doc
}

// Root returns the root element, or nil for an empty document.
func (c *Context) Root() *etree.Element {
	return c.doc.Root()
}

// CreateText creates a detached text node.
func (c *Context) CreateText(text string) *etree.CharData {
	return etree.NewText(text)
}

// CreateElement creates a detached element whose text content is content.
func (c *Context) CreateElement(tag, content string) *etree.Element {
	el := etree.NewElement(tag)
	if content != "" {
		el.SetText(content)
	}
	return el
}

// Append attaches child as the last child of parent.
func (c *Context) Append(parent *etree.Element, child etree.Token) {
	parent.AddChild(child)
}

// InsertBefore attaches child immediately before ref.
func (c *Context) InsertBefore(child etree.Token, ref etree.Token) error {
	parent := ref.Parent()
	if parent == nil {
		return errors.WithStack(ErrDetachedNode)
	}
	parent.InsertChildAt(ref.Index(), child)
	return nil
}

// Replace substitutes replacement for old in old's parent.
func (c *Context) Replace(old, replacement etree.Token) error {
	parent := old.Parent()
	if parent == nil {
		return errors.WithStack(ErrDetachedNode)
	}
	idx := old.Index()
	parent.RemoveChildAt(idx)
	parent.InsertChildAt(idx, replacement)
	return nil
}

// Import deep-clones a node from any tree so it can be attached to this one.
// The foreign node is left untouched.
func (c *Context) Import(t etree.Token) etree.Token {
	switch n := t.(type) {
	case *etree.Element:
		return n.Copy()
	case *etree.CharData:
		if n.IsCData() {
			return etree.NewCData(n.Data)
		}
		return etree.NewText(n.Data)
	case *etree.Comment:
		return etree.NewComment(n.Data)
	case *etree.Directive:
		return etree.NewDirective(n.Data)
	case *etree.ProcInst:
		return etree.NewProcInst(n.Target, n.Inst)
	default:
		return nil
	}
}

// Serialize renders the subtree rooted at t as markup text.
func (c *Context) Serialize(t etree.Token) (string, error) {
	tmp := etree.NewDocument()
	tmp.WriteSettings = c.doc.WriteSettings
	tmp.AddChild(c.Import(t))
	out, err := tmp.WriteToString()
	if err != nil {
		return "", errors.Errorf("serializing node: %w", err)
	}
	return out, nil
}

// SetIndent configures indentation applied by String. A negative count
// disables indentation.
func (c *Context) SetIndent(spaces int, tabs bool) {
	c.indent = spaces
	c.indentTabs = tabs
}

// String serializes the whole document. The owned tree is not reformatted;
// indentation is applied to a copy.
func (c *Context) String() (string, error) {
	doc := c.doc
	switch {
	case c.indentTabs:
		doc = c.doc.Copy()
		doc.IndentTabs()
	case c.indent >= 0:
		doc = c.doc.Copy()
		doc.Indent(c.indent)
	}
	out, err := doc.WriteToString()
	if err != nil {
		return "", errors.Errorf("serializing document: %w", err)
	}
	return out, nil
}

// TextContent concatenates all character data below el in document order.
func TextContent(el *etree.Element) string {
	var sb strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.Child {
			switch n := child.(type) {
			case *etree.CharData:
				sb.WriteString(n.Data)
			case *etree.Element:
				walk(n)
			}
		}
	}
	walk(el)
	return sb.String()
}
