package doc

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Sanitize converts arbitrary JSON into a valid document. It never fails:
// anything it cannot interpret degrades to the default empty paragraph.
//
// Rules, per top-level entry:
//   - non-objects become empty paragraphs;
//   - the kind comes from "type" (or "kind") when it is a known kind name,
//     otherwise paragraph;
//   - children of text blocks are reduced to text leaves: null gives "",
//     a string is taken as legacy leaf text, an object contributes its
//     "text" string and truthy bold/italic/code flags;
//   - list containers keep list-items only; stray leaves and elements are
//     re-nested as list-items;
//   - voids hold a single empty leaf; images keep a string "url";
//   - a list-item at the top level becomes a paragraph.
//
// Sanitize is idempotent: Sanitize(Marshal(Sanitize(x))) equals Sanitize(x).
func Sanitize(src []byte) *Document {
	if !gjson.ValidBytes(src) {
		return New()
	}
	root := gjson.ParseBytes(src)
	if !root.IsArray() {
		return New()
	}
	var blocks []Node
	root.ForEach(func(_, v gjson.Result) bool {
		blocks = append(blocks, sanitizeBlock(v))
		return true
	})
	if len(blocks) == 0 {
		return New()
	}
	return &Document{Children: blocks}
}

func sanitizeBlock(v gjson.Result) Node {
	if !v.IsObject() {
		return NewParagraph()
	}
	kind := sanitizeKind(v)
	if kind == KindListItem {
		kind = KindParagraph
	}
	return sanitizeElement(kind, v)
}

func sanitizeElement(kind Kind, v gjson.Result) *Element {
	children := v.Get("children")
	switch {
	case kind.IsList():
		el := &Element{Kind: kind}
		if children.IsArray() {
			children.ForEach(func(_, c gjson.Result) bool {
				el.Children = append(el.Children, sanitizeListItem(c))
				return true
			})
		}
		if len(el.Children) == 0 {
			el.Children = []Node{NewElement(KindListItem)}
		}
		return el
	case kind.IsVoid():
		el := NewElement(kind)
		if kind == KindImage {
			if u := v.Get("url"); u.Type == gjson.String {
				el.URL = validText(u.Str)
			}
		}
		return el
	}
	el := &Element{Kind: kind}
	if children.IsArray() {
		children.ForEach(func(_, c gjson.Result) bool {
			el.Children = append(el.Children, sanitizeLeaf(c))
			return true
		})
	}
	if len(el.Children) == 0 {
		el.Children = []Node{NewText("")}
	}
	return el
}

// sanitizeListItem re-nests one list child. Element-shaped children (objects
// carrying a children array) become list-items holding their leaves; anything
// else is taken as the single leaf of a new list-item.
func sanitizeListItem(c gjson.Result) Node {
	if c.IsObject() && c.Get("children").IsArray() {
		return sanitizeElement(KindListItem, c)
	}
	return NewElement(KindListItem, sanitizeLeaf(c))
}

func sanitizeKind(v gjson.Result) Kind {
	for _, key := range []string{"type", "kind"} {
		f := v.Get(key)
		if f.Type != gjson.String {
			continue
		}
		if k, ok := ParseKind(f.Str); ok {
			return k
		}
		return KindParagraph
	}
	return KindParagraph
}

func sanitizeLeaf(c gjson.Result) *Text {
	switch {
	case c.Type == gjson.String:
		return NewText(validText(c.Str))
	case c.IsObject():
		t := &Text{}
		if s := c.Get("text"); s.Type == gjson.String {
			t.Text = validText(s.Str)
		}
		t.Bold = truthy(c.Get("bold"))
		t.Italic = truthy(c.Get("italic"))
		t.Code = truthy(c.Get("code"))
		return t
	}
	return NewText("")
}

// validText replaces invalid UTF-8 so offsets and re-encoding agree.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

// truthy applies loose truthiness: true, non-zero numbers, non-empty strings
// and any object or array.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		return true
	}
	return false
}

// MarshalJSON encodes d as its array of top-level elements.
func (d Document) MarshalJSON() ([]byte, error) {
	children := d.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(children)
}

// UnmarshalJSON decodes any JSON through Sanitize, so a decoded document is
// always valid.
func (d *Document) UnmarshalJSON(b []byte) error {
	*d = *Sanitize(b)
	return nil
}
