// Package markdown converts between CommonMark text and pagemark documents.
// Import is lossy where CommonMark is richer than the document model:
// headings below level two become heading-two, nested lists are flattened,
// and link targets are dropped in favour of their text.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Import parses CommonMark source into a valid document.
func Import(src []byte) *doc.Document {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var blocks []doc.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, convertBlock(n, src)...)
	}
	if len(blocks) == 0 {
		return doc.New()
	}
	return &doc.Document{Children: blocks}
}

func convertBlock(n ast.Node, src []byte) []doc.Node {
	switch n := n.(type) {
	case *ast.Heading:
		kind := doc.KindHeadingTwo
		if n.Level == 1 {
			kind = doc.KindHeadingOne
		}
		leaves, images := inlines(n, src)
		return append([]doc.Node{block(kind, leaves)}, images...)

	case *ast.Paragraph, *ast.TextBlock:
		leaves, images := inlines(n, src)
		if len(images) > 0 && plain(leaves) == "" {
			return images
		}
		return append([]doc.Node{block(doc.KindParagraph, leaves)}, images...)

	case *ast.List:
		kind := doc.KindBulletedList
		if n.IsOrdered() {
			kind = doc.KindNumberedList
		}
		items := listItems(n, src)
		if len(items) == 0 {
			items = []doc.Node{doc.NewElement(doc.KindListItem)}
		}
		return []doc.Node{&doc.Element{Kind: kind, Children: items}}

	case *ast.Blockquote:
		var leaves []doc.Node
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if len(leaves) > 0 {
				leaves = append(leaves, doc.NewText("\n"))
			}
			ls, _ := inlines(c, src)
			if len(ls) == 0 {
				ls = []doc.Node{doc.NewText(linesText(c, src))}
			}
			leaves = append(leaves, ls...)
		}
		return []doc.Node{block(doc.KindBlockQuote, leaves)}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		code := strings.TrimSuffix(linesText(n, src), "\n")
		return []doc.Node{doc.NewElement(doc.KindCodeBlock, doc.NewText(code))}

	case *ast.ThematicBreak:
		return []doc.Node{doc.NewElement(doc.KindDivider)}
	}
	return []doc.Node{doc.NewElement(doc.KindParagraph, doc.NewText(strings.TrimSpace(linesText(n, src))))}
}

// listItems flattens a list, and any lists nested in it, into list-items.
func listItems(list *ast.List, src []byte) []doc.Node {
	var out []doc.Node
	for it := list.FirstChild(); it != nil; it = it.NextSibling() {
		var leaves []doc.Node
		var nested []doc.Node
		for c := it.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, listItems(sub, src)...)
				continue
			}
			if len(leaves) > 0 {
				leaves = append(leaves, doc.NewText(" "))
			}
			ls, _ := inlines(c, src)
			leaves = append(leaves, ls...)
		}
		out = append(out, block(doc.KindListItem, leaves))
		out = append(out, nested...)
	}
	return out
}

// inlines converts the inline content of n into leaves. Images cannot live
// inside a text block, so they are returned separately as image blocks.
func inlines(n ast.Node, src []byte) (leaves, images []doc.Node) {
	var walk func(n ast.Node, marks doc.Marks)
	emit := func(s string, marks doc.Marks) {
		if s != "" {
			leaves = append(leaves, &doc.Text{Text: s, Marks: marks})
		}
	}
	walk = func(n ast.Node, marks doc.Marks) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.Text:
				v := c.Segment.Value(src)
				if !marks.Code {
					v = unescape(v)
				}
				emit(string(v), marks)
				switch {
				case c.HardLineBreak():
					emit("\n", marks)
				case c.SoftLineBreak():
					emit(" ", marks)
				}
			case *ast.String:
				emit(string(c.Value), marks)
			case *ast.Emphasis:
				mark := doc.MarkItalic
				if c.Level >= 2 {
					mark = doc.MarkBold
				}
				walk(c, marks.With(mark, true))
			case *ast.CodeSpan:
				walk(c, marks.With(doc.MarkCode, true))
			case *ast.AutoLink:
				emit(string(c.Label(src)), marks)
			case *ast.RawHTML:
				for i := 0; i < c.Segments.Len(); i++ {
					seg := c.Segments.At(i)
					emit(string(seg.Value(src)), marks)
				}
			case *ast.Image:
				images = append(images, doc.NewImage(string(c.Destination)))
			default:
				walk(c, marks)
			}
		}
	}
	walk(n, doc.Marks{})
	return leaves, images
}

// unescape resolves backslash escapes and character references, which the
// AST keeps in their source form.
func unescape(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}

// linesText returns the raw source lines of a block node.
func linesText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

// block builds a text block from leaves, merging neighbours with equal marks.
func block(kind doc.Kind, leaves []doc.Node) *doc.Element {
	var out []doc.Node
	for _, n := range leaves {
		t := n.(*doc.Text)
		if len(out) > 0 {
			if prev := out[len(out)-1].(*doc.Text); prev.Marks == t.Marks {
				prev.Text += t.Text
				continue
			}
		}
		out = append(out, t)
	}
	return doc.NewElement(kind, out...)
}

func plain(leaves []doc.Node) string {
	var b strings.Builder
	for _, n := range leaves {
		b.WriteString(n.(*doc.Text).Text)
	}
	return strings.TrimSpace(b.String())
}
