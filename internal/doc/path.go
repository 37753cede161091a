package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node by child indices from the root. Paths are positions,
// not identities: any structural edit before a path invalidates it.
type Path []int

// Clone returns a copy of p that does not share storage.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path{}, p...)
}

// Equal reports whether p and q address the same position.
func (p Path) Equal(q Path) bool {
	return p.Compare(q) == 0 && len(p) == len(q)
}

// Compare orders paths in document order. An ancestor compares equal to its
// descendants; callers needing strict ordering also compare lengths.
func (p Path) Compare(q Path) int {
	n := min(len(p), len(q))
	for i := 0; i < n; i++ {
		switch {
		case p[i] < q[i]:
			return -1
		case p[i] > q[i]:
			return 1
		}
	}
	return 0
}

// IsAncestorOf reports whether p is a strict ancestor of q.
func (p Path) IsAncestorOf(q Path) bool {
	return len(p) < len(q) && p.Compare(q) == 0
}

// Parent returns the path of p's parent. The parent of a top-level path is
// the empty (root) path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Last returns the index of p within its parent, or -1 for the root path.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Sibling returns the path of p's sibling at index i.
func (p Path) Sibling(i int) Path {
	q := p.Clone()
	q[len(q)-1] = i
	return q
}

// Next returns the path of the following sibling.
func (p Path) Next() Path {
	return p.Sibling(p.Last() + 1)
}

// Previous returns the path of the preceding sibling. ok is false at index 0.
func (p Path) Previous() (Path, bool) {
	if p.Last() <= 0 {
		return nil, false
	}
	return p.Sibling(p.Last() - 1), true
}

// Child returns the path of p's i-th child.
func (p Path) Child(i int) Path {
	return append(p.Clone(), i)
}

// String renders p in selector syntax: indices joined by ":".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ":")
}

// ParsePath parses selector syntax ("0", "2:1", "2:1:0") into a Path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty path")
	}
	segs := strings.Split(s, ":")
	p := make(Path, 0, len(segs))
	for _, seg := range segs {
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid path segment %q in %q", seg, s)
		}
		p = append(p, idx)
	}
	return p, nil
}

// Get returns the node at p. ok is false when p does not resolve.
func (d *Document) Get(p Path) (Node, bool) {
	if len(p) == 0 {
		return nil, false
	}
	children := d.Children
	var n Node
	for depth, idx := range p {
		if idx < 0 || idx >= len(children) {
			return nil, false
		}
		n = children[idx]
		if depth == len(p)-1 {
			break
		}
		el, ok := n.(*Element)
		if !ok {
			return nil, false
		}
		children = el.Children
	}
	return n, true
}

// ElementAt returns the element at p.
func (d *Document) ElementAt(p Path) (*Element, bool) {
	n, ok := d.Get(p)
	if !ok {
		return nil, false
	}
	el, ok := n.(*Element)
	return el, ok
}

// TextAt returns the text leaf at p.
func (d *Document) TextAt(p Path) (*Text, bool) {
	n, ok := d.Get(p)
	if !ok {
		return nil, false
	}
	t, ok := n.(*Text)
	return t, ok
}

// ChildrenAt returns the child list of the node at parent; the empty path
// yields the root list.
func (d *Document) ChildrenAt(parent Path) ([]Node, bool) {
	if len(parent) == 0 {
		return d.Children, true
	}
	el, ok := d.ElementAt(parent)
	if !ok {
		return nil, false
	}
	return el.Children, true
}

// SetChildrenAt replaces the child list of the node at parent.
func (d *Document) SetChildrenAt(parent Path, children []Node) bool {
	if len(parent) == 0 {
		d.Children = children
		return true
	}
	el, ok := d.ElementAt(parent)
	if !ok {
		return false
	}
	el.Children = children
	return true
}

// PathOf returns the current path of node n, found by identity. It is how
// callers re-resolve a node after edits have shifted positions.
func (d *Document) PathOf(n Node) (Path, bool) {
	var found Path
	d.Walk(func(p Path, c Node) bool {
		if c == n {
			found = p.Clone()
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits every node in document order (pre-order). Returning false from
// fn stops the walk.
func (d *Document) Walk(fn func(Path, Node) bool) {
	var walk func(prefix Path, nodes []Node) bool
	walk = func(prefix Path, nodes []Node) bool {
		for i, n := range nodes {
			p := append(prefix.Clone(), i)
			if !fn(p, n) {
				return false
			}
			if el, ok := n.(*Element); ok {
				if !walk(p, el.Children) {
					return false
				}
			}
		}
		return true
	}
	walk(nil, d.Children)
}

// Block is a text block together with its current path.
type Block struct {
	Path    Path
	Element *Element
}

// Blocks returns every text block (elements whose children are leaves,
// voids included) in document order.
func (d *Document) Blocks() []Block {
	var out []Block
	d.Walk(func(p Path, n Node) bool {
		if el, ok := n.(*Element); ok && el.Kind.IsTextBlock() {
			out = append(out, Block{Path: p, Element: el})
		}
		return true
	})
	return out
}

// BlockOf returns the nearest text block at or above p.
func (d *Document) BlockOf(p Path) (Block, bool) {
	for q := p.Clone(); len(q) > 0; q = q.Parent() {
		if el, ok := d.ElementAt(q); ok && el.Kind.IsTextBlock() {
			return Block{Path: q, Element: el}, true
		}
	}
	return Block{}, false
}

// Ancestors returns the elements from the top-level block down to the node at
// p, inclusive when that node is an element.
func (d *Document) Ancestors(p Path) []*Element {
	var out []*Element
	for i := 1; i <= len(p); i++ {
		if el, ok := d.ElementAt(p[:i]); ok {
			out = append(out, el)
		}
	}
	return out
}

// Start returns the first point inside the node at p.
func (d *Document) Start(p Path) (Point, bool) {
	q := p.Clone()
	for {
		n, ok := d.Get(q)
		if !ok {
			return Point{}, false
		}
		switch n := n.(type) {
		case *Text:
			return Point{Path: q, Offset: 0}, true
		case *Element:
			if len(n.Children) == 0 {
				return Point{}, false
			}
			q = q.Child(0)
		}
	}
}

// End returns the last point inside the node at p. Voids end at offset 0.
func (d *Document) End(p Path) (Point, bool) {
	q := p.Clone()
	for {
		n, ok := d.Get(q)
		if !ok {
			return Point{}, false
		}
		switch n := n.(type) {
		case *Text:
			off := n.Len()
			if d.inVoid(q) {
				off = 0
			}
			return Point{Path: q, Offset: off}, true
		case *Element:
			if len(n.Children) == 0 {
				return Point{}, false
			}
			q = q.Child(len(n.Children) - 1)
		}
	}
}

// inVoid reports whether the leaf at p is the placeholder of a void.
func (d *Document) inVoid(p Path) bool {
	if len(p) < 2 {
		return false
	}
	el, ok := d.ElementAt(p.Parent())
	return ok && el.IsVoid()
}
