// Package markdown compiles post bodies to HTML and derives their heading
// outline. Both share one anchor generator, so every heading id in the
// compiled HTML matches the anchor of its outline node.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(headingAnchors{}, 500)),
	),
)

// Markdown returns a templ.Component that writes already compiled HTML.
func Markdown(compiled string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, compiled)
		return err
	})
}

// Compile renders src as GitHub-flavoured HTML. Raw HTML in the source is
// omitted.
func Compile(src string) (string, error) {
	source := []byte(src)
	doc := parse(source)
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func parse(source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

// headingAnchors assigns an id attribute to every heading of a document.
type headingAnchors struct{}

func (headingAnchors) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	anchors := NewAnchors()
	src := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		h.SetAttributeString("id", []byte(anchors.Next(plainText(h, src))))
		return ast.WalkSkipChildren, nil
	})
}

// plainText concatenates the text content of n as a reader sees it: inline
// markup dropped, escapes and entities resolved, autolinks reduced to their
// label, whitespace collapsed.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.CodeSpan:
			for ch := t.FirstChild(); ch != nil; ch = ch.NextSibling() {
				if s, ok := ch.(*ast.Text); ok {
					buf.Write(s.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			buf.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			v := t.Segment.Value(src)
			if !t.IsRaw() {
				v = util.UnescapePunctuations(v)
				v = util.ResolveNumericReferences(v)
				v = util.ResolveEntityNames(v)
			}
			buf.Write(v)
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}
