// Package doc provides the document model for pagemark pages: the block/leaf
// node tree, positional paths, points and ranges over it, structural
// validation, and the sanitizer that turns untrusted JSON into a valid tree.
package doc

// Kind names an element variant. The set is closed; see the Kind* constants.
type Kind string

const (
	KindParagraph    Kind = "paragraph"
	KindHeadingOne   Kind = "heading-one"
	KindHeadingTwo   Kind = "heading-two"
	KindBulletedList Kind = "bulleted-list"
	KindNumberedList Kind = "numbered-list"
	KindListItem     Kind = "list-item"
	KindBlockQuote   Kind = "block-quote"
	KindCodeBlock    Kind = "code-block"
	KindDivider      Kind = "divider"
	KindImage        Kind = "image"
)

// Kinds lists every element kind in declaration order.
var Kinds = []Kind{
	KindParagraph,
	KindHeadingOne,
	KindHeadingTwo,
	KindBulletedList,
	KindNumberedList,
	KindListItem,
	KindBlockQuote,
	KindCodeBlock,
	KindDivider,
	KindImage,
}

// kindAliases maps alternate spellings accepted on input to their kind.
var kindAliases = map[string]Kind{
	"heading-1": KindHeadingOne,
	"heading-2": KindHeadingTwo,
}

// ParseKind returns the kind named by s. Aliases ("heading-1", "heading-2")
// are accepted. ok is false for unknown names.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	k, ok := kindAliases[s]
	return k, ok
}

// IsList reports whether k is a list container kind.
func (k Kind) IsList() bool {
	return k == KindBulletedList || k == KindNumberedList
}

// IsVoid reports whether k is rendered and edited as an atomic unit.
func (k Kind) IsVoid() bool {
	return k == KindDivider || k == KindImage
}

// IsTextBlock reports whether elements of kind k hold text leaves directly.
// Voids count as text blocks: their single placeholder leaf is a text leaf.
func (k Kind) IsTextBlock() bool {
	return !k.IsList()
}

// Mark names a boolean inline style.
type Mark string

const (
	MarkBold   Mark = "bold"
	MarkItalic Mark = "italic"
	MarkCode   Mark = "code"
)

// ParseMark returns the mark named by s.
func ParseMark(s string) (Mark, bool) {
	switch Mark(s) {
	case MarkBold, MarkItalic, MarkCode:
		return Mark(s), true
	}
	return "", false
}

// Marks holds the mark flags of a text leaf. The zero value has no marks.
type Marks struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
	Code   bool `json:"code,omitempty"`
}

// Has reports whether mark is set.
func (m Marks) Has(mark Mark) bool {
	switch mark {
	case MarkBold:
		return m.Bold
	case MarkItalic:
		return m.Italic
	case MarkCode:
		return m.Code
	}
	return false
}

// With returns a copy of m with mark set to v.
func (m Marks) With(mark Mark, v bool) Marks {
	switch mark {
	case MarkBold:
		m.Bold = v
	case MarkItalic:
		m.Italic = v
	case MarkCode:
		m.Code = v
	}
	return m
}

// Node is either a *Text leaf or an *Element. The interface is sealed; callers
// switch on the concrete type.
type Node interface {
	isNode()
}

// Text is a leaf carrying literal text and its marks.
type Text struct {
	Text string `json:"text"`
	Marks
}

// Element is a structural node with a kind and at least one child.
// URL is only meaningful for KindImage.
type Element struct {
	Kind     Kind   `json:"type"`
	URL      string `json:"url,omitempty"`
	Children []Node `json:"children"`
}

func (*Text) isNode()    {}
func (*Element) isNode() {}

// Len returns the byte length of the leaf's text.
func (t *Text) Len() int { return len(t.Text) }

// IsVoid reports whether e is a void element.
func (e *Element) IsVoid() bool { return e.Kind.IsVoid() }

// Document is the root sequence of top-level elements. A valid document is
// never empty.
type Document struct {
	Children []Node
}

// NewText returns an unmarked leaf.
func NewText(s string) *Text {
	return &Text{Text: s}
}

// NewElement returns an element of kind k holding children. A childless
// element gets a single empty leaf.
func NewElement(k Kind, children ...Node) *Element {
	if len(children) == 0 {
		children = []Node{NewText("")}
	}
	return &Element{Kind: k, Children: children}
}

// NewParagraph returns the default empty paragraph.
func NewParagraph() *Element {
	return NewElement(KindParagraph)
}

// NewImage returns an image void pointing at url.
func NewImage(url string) *Element {
	e := NewElement(KindImage)
	e.URL = url
	return e
}

// New returns the default document: a single empty paragraph.
func New() *Document {
	return &Document{Children: []Node{NewParagraph()}}
}

// IsEmpty reports whether d is the default document (one paragraph holding
// only empty text).
func (d *Document) IsEmpty() bool {
	if len(d.Children) != 1 {
		return false
	}
	el, ok := d.Children[0].(*Element)
	if !ok || el.Kind != KindParagraph {
		return false
	}
	for _, c := range el.Children {
		if t, ok := c.(*Text); !ok || t.Text != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Children: make([]Node, len(d.Children))}
	for i, c := range d.Children {
		out.Children[i] = CloneNode(c)
	}
	return out
}

// CloneNode returns a deep copy of n.
func CloneNode(n Node) Node {
	switch n := n.(type) {
	case *Text:
		cp := *n
		return &cp
	case *Element:
		cp := &Element{Kind: n.Kind, URL: n.URL, Children: make([]Node, len(n.Children))}
		for i, c := range n.Children {
			cp.Children[i] = CloneNode(c)
		}
		return cp
	}
	return nil
}

// Diagnostic is a structural finding about a document.
type Diagnostic struct {
	Severity string `json:"severity"` // "error" | "warning"
	Code     string `json:"code"`
	Message  string `json:"message"`
	Path     Path   `json:"path,omitempty"`
}

// Structural errors.
const (
	CodeEmptyDocument     = "DOCE001"
	CodeRootNotElement    = "DOCE002"
	CodeListChildNotItem  = "DOCE003"
	CodeItemOutsideList   = "DOCE004"
	CodeNoChildren        = "DOCE005"
	CodeBlockChildNotLeaf = "DOCE006"
	CodeVoidContent       = "DOCE007"
	CodeUnknownKind       = "DOCE008"
)

// Structural warnings.
const (
	CodeImageWithoutURL = "DOCW001"
)
