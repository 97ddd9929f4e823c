package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
)

// OutlineNode is one heading in a document's table of contents.
type OutlineNode struct {
	Level    int            `json:"level"`
	Text     string         `json:"text"`
	Anchor   string         `json:"anchor"`
	Children []*OutlineNode `json:"children,omitempty"`
}

// Heading is a heading token in document order.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// Outline parses src and returns its heading forest in document order.
// A document without headings yields nil.
func Outline(src string) []*OutlineNode {
	return BuildOutline(Headings(src))
}

// Headings returns the headings of src in document order with their anchors.
// Lines starting with # inside fenced code are not headings.
func Headings(src string) []Heading {
	source := []byte(src)
	doc := parse(source)
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var anchor string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				anchor = string(b)
			}
		}
		out = append(out, Heading{Level: h.Level, Text: plainText(h, source), Anchor: anchor})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// BuildOutline nests headings using a stack of open nodes. A node's children
// are the strictly deeper headings that appear before the next heading of
// equal or shallower level.
func BuildOutline(headings []Heading) []*OutlineNode {
	var roots []*OutlineNode
	var stack []*OutlineNode
	for _, h := range headings {
		node := &OutlineNode{Level: h.Level, Text: h.Text, Anchor: h.Anchor}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, node)
		}
		stack = append(stack, node)
	}
	return roots
}

// Anchors hands out URL-safe anchor ids that are unique within one document.
// Use a fresh Anchors per document.
type Anchors struct {
	taken map[string]struct{}
}

// NewAnchors returns an empty anchor set.
func NewAnchors() *Anchors {
	return &Anchors{taken: make(map[string]struct{})}
}

// Next returns the anchor for heading text s. A repeated anchor gets the
// first free suffix of -1, -2, ...
func (a *Anchors) Next(s string) string {
	base := Anchor(s)
	id := base
	for n := 1; a.has(id); n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	a.taken[id] = struct{}{}
	return id
}

func (a *Anchors) has(id string) bool {
	_, ok := a.taken[id]
	return ok
}

// Anchor lowercases s, drops everything except letters, digits, hyphens and
// whitespace, and joins the remaining words with single hyphens.
func Anchor(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	id := strings.Join(strings.Fields(b.String()), "-")
	if id == "" {
		return "section"
	}
	return id
}
