package editor

import "github.com/eykd/pagemark-go/internal/doc"

// anchor is a position held by block identity and an offset into the
// block's concatenated text. Anchors survive retyping, wrapping, moving and
// leaf normalization, which paths do not.
type anchor struct {
	block *doc.Element
	off   int
}

// selAnchors is a selection saved across a structural edit.
type selAnchors struct {
	anchor, focus anchor
}

// anchorOf converts a point into an anchor.
func (e *Editor) anchorOf(p doc.Point) (anchor, bool) {
	block, ok := e.doc.ElementAt(p.Path.Parent())
	if !ok || block.Kind.IsList() {
		return anchor{}, false
	}
	if block.IsVoid() {
		return anchor{block: block}, true
	}
	idx := p.Path.Last()
	off := 0
	for i := 0; i < idx && i < len(block.Children); i++ {
		if t, ok := block.Children[i].(*doc.Text); ok {
			off += t.Len()
		}
	}
	return anchor{block: block, off: off + p.Offset}, true
}

// pointOf resolves an anchor against the live tree.
func (e *Editor) pointOf(a anchor) (doc.Point, bool) {
	path, ok := e.doc.PathOf(a.block)
	if !ok {
		return doc.Point{}, false
	}
	idx, off := leafAt(a.block, a.off)
	return doc.Point{Path: path.Child(idx), Offset: off}, true
}

// leafAt maps a block offset to a leaf index and offset. At a boundary
// between two leaves the earlier leaf wins, so typing continues its marks.
// Offsets past the end clamp to the end.
func leafAt(block *doc.Element, off int) (int, int) {
	if block.IsVoid() || off <= 0 {
		return 0, 0
	}
	pos := 0
	for i, c := range block.Children {
		t, ok := c.(*doc.Text)
		if !ok {
			continue
		}
		if off <= pos+t.Len() {
			return i, off - pos
		}
		pos += t.Len()
	}
	last := len(block.Children) - 1
	if t, ok := block.Children[last].(*doc.Text); ok {
		return last, t.Len()
	}
	return last, 0
}

// blockLen is the length of the block's concatenated text.
func blockLen(block *doc.Element) int {
	if block.IsVoid() {
		return 0
	}
	return len(doc.BlockText(block))
}

// save captures the selection as anchors; nil when nothing is selected.
func (e *Editor) save() *selAnchors {
	if e.sel == nil {
		return nil
	}
	a, ok1 := e.anchorOf(e.sel.Anchor)
	f, ok2 := e.anchorOf(e.sel.Focus)
	if !ok1 || !ok2 {
		return nil
	}
	return &selAnchors{anchor: a, focus: f}
}

// restore re-resolves saved anchors. It reports false, leaving the
// selection untouched, when either anchored block left the tree.
func (e *Editor) restore(s *selAnchors) bool {
	if s == nil {
		return false
	}
	a, ok1 := e.pointOf(s.anchor)
	f, ok2 := e.pointOf(s.focus)
	if !ok1 || !ok2 {
		return false
	}
	e.sel = &doc.Range{Anchor: a, Focus: f}
	return true
}

// setCursor collapses the selection onto a.
func (e *Editor) setCursor(a anchor) {
	if p, ok := e.pointOf(a); ok {
		e.sel = &doc.Range{Anchor: p, Focus: p}
	}
}

// cursor returns the anchor of a collapsed selection.
func (e *Editor) cursor() (anchor, bool) {
	if e.sel == nil {
		return anchor{}, false
	}
	return e.anchorOf(e.sel.Anchor)
}

// edges returns the selection edges as anchors in document order.
func (e *Editor) edges() (start, end anchor, ok bool) {
	if e.sel == nil {
		return anchor{}, anchor{}, false
	}
	s, f := doc.Edges(*e.sel)
	start, ok1 := e.anchorOf(s)
	end, ok2 := e.anchorOf(f)
	return start, end, ok1 && ok2
}

// selectedBlocks returns the text blocks from the selection's start block to
// its end block, in document order.
func (e *Editor) selectedBlocks() []*doc.Element {
	start, end, ok := e.edges()
	if !ok {
		return nil
	}
	var out []*doc.Element
	in := false
	for _, b := range e.doc.Blocks() {
		if b.Element == start.block {
			in = true
		}
		if in {
			out = append(out, b.Element)
		}
		if b.Element == end.block {
			break
		}
	}
	return out
}

// neighbours returns the text blocks immediately before and after el in
// document order (excluding el's own descendants).
func (e *Editor) neighbours(el *doc.Element) (prev, next *doc.Element) {
	path, ok := e.doc.PathOf(el)
	if !ok {
		return nil, nil
	}
	for _, b := range e.doc.Blocks() {
		switch {
		case b.Element == el || path.IsAncestorOf(b.Path):
			continue
		case b.Path.Compare(path) < 0:
			prev = b.Element
		case next == nil:
			next = b.Element
		}
	}
	return prev, next
}
