package document_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gobubble/pkg/document"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		wantErr bool
	}{
		{name: "single root", markup: `<page><text>Hello</text></page>`},
		{name: "unclosed element", markup: `<page><text>Hello</page>`, wantErr: true},
		{name: "empty input", markup: ``, wantErr: true},
		{name: "second root element", markup: `<a/><b/>`, wantErr: true},
		{name: "text after root", markup: `<page/>tail`, wantErr: true},
		{name: "prolog and trailing comment", markup: "<?xml version=\"1.0\"?>\n<page/>\n<!-- end -->\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := document.Parse(tt.markup)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, document.ErrMarkupSyntax))
				var syntaxErr *document.MarkupSyntaxError
				require.True(t, errors.As(err, &syntaxErr))
				assert.Equal(t, tt.markup, syntaxErr.Input)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, ctx.Root())
			assert.Equal(t, "page", ctx.Root().Tag)
		})
	}
}

func TestCreateAndSerialize(t *testing.T) {
	ctx := document.New()

	el := ctx.CreateElement("div", "Hi")
	out, err := ctx.Serialize(el)
	require.NoError(t, err)
	assert.Equal(t, `<div>Hi</div>`, out)

	text := ctx.CreateText("a < b")
	out, err = ctx.Serialize(text)
	require.NoError(t, err)
	assert.Equal(t, `a &lt; b`, out)

	empty := ctx.CreateElement("br", "")
	out, err = ctx.Serialize(empty)
	require.NoError(t, err)
	assert.Equal(t, `<br/>`, out)
}

func TestImportLeavesForeignNodeUntouched(t *testing.T) {
	foreign, err := document.Parse(`<a x="1"><b>two</b></a>`)
	require.NoError(t, err)

	ctx, err := document.Parse(`<root/>`)
	require.NoError(t, err)

	imported := ctx.Import(foreign.Root())
	ctx.Append(ctx.Root(), imported)

	assert.Same(t, ctx.Root(), imported.Parent())
	assert.NotSame(t, foreign.Root(), imported)

	out, err := ctx.String()
	require.NoError(t, err)
	assert.Equal(t, `<root><a x="1"><b>two</b></a></root>`, out)

	orig, err := foreign.String()
	require.NoError(t, err)
	assert.Equal(t, `<a x="1"><b>two</b></a>`, orig)
}

func TestImportTokenKinds(t *testing.T) {
	ctx := document.New()

	tests := []struct {
		name string
		in   etree.Token
		want string
	}{
		{name: "text", in: etree.NewText("plain"), want: "plain"},
		{name: "cdata", in: etree.NewCData("x<y"), want: "<![CDATA[x<y]]>"},
		{name: "comment", in: etree.NewComment("note"), want: "<!--note-->"},
		{name: "proc inst", in: etree.NewProcInst("go", "run"), want: "<?go run?>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imported := ctx.Import(tt.in)
			require.NotNil(t, imported)
			assert.NotSame(t, tt.in, imported)
			out, err := ctx.Serialize(imported)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestReplace(t *testing.T) {
	ctx, err := document.Parse(`<page><a/><text>x</text><b/></page>`)
	require.NoError(t, err)

	old := ctx.Root().SelectElement("text")
	require.NoError(t, ctx.Replace(old, ctx.CreateText("x")))

	out, err := ctx.String()
	require.NoError(t, err)
	assert.Equal(t, `<page><a/>x<b/></page>`, out)

	err = ctx.Replace(etree.NewElement("detached"), ctx.CreateText("y"))
	assert.True(t, errors.Is(err, document.ErrDetachedNode))
}

func TestInsertBefore(t *testing.T) {
	ctx, err := document.Parse(`<page><a/><b/></page>`)
	require.NoError(t, err)

	require.NoError(t, ctx.InsertBefore(ctx.CreateElement("z", ""), ctx.Root().SelectElement("b")))

	out, err := ctx.String()
	require.NoError(t, err)
	assert.Equal(t, `<page><a/><z/><b/></page>`, out)
}

func TestTextContent(t *testing.T) {
	ctx, err := document.Parse(`<text>Hello <b>big</b> <![CDATA[world]]><!--skip--></text>`)
	require.NoError(t, err)

	assert.Equal(t, "Hello big world", document.TextContent(ctx.Root()))
}

func TestStringIndent(t *testing.T) {
	ctx, err := document.Parse(`<page><a/></page>`)
	require.NoError(t, err)

	ctx.SetIndent(2, false)
	out, err := ctx.String()
	require.NoError(t, err)
	assert.Contains(t, out, "<page>\n  <a/>\n</page>")

	ctx.SetIndent(etree.NoIndent, false)
	out, err = ctx.String()
	require.NoError(t, err)
	assert.Equal(t, `<page><a/></page>`, out, "indenting must not reformat the owned tree")
}

func TestPathOfAndResolve(t *testing.T) {
	ctx, err := document.Parse(`<page><div/><div><text>a</text><text>b</text></div></page>`)
	require.NoError(t, err)

	second := ctx.Root().ChildElements()[1].ChildElements()[1]
	path := document.PathOf(second)
	assert.Equal(t, "/page[1]/div[2]/text[2]", path)

	resolved, err := ctx.Resolve(path)
	require.NoError(t, err)
	assert.Same(t, second, resolved)

	_, err = ctx.Resolve("/page[1]/div[3]")
	assert.True(t, errors.Is(err, document.ErrPathNotFound))
}
