package editor

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Unit is the extent removed by a single delete.
type Unit int

const (
	// UnitCharacter removes one grapheme cluster.
	UnitCharacter Unit = iota
	// UnitWord removes one word, along with any whitespace between it and
	// the cursor.
	UnitWord
	// UnitBlock removes everything up to the edge of the block.
	UnitBlock
)

var unitNames = map[string]Unit{
	"character": UnitCharacter,
	"word":      UnitWord,
	"block":     UnitBlock,
}

// ParseUnit returns the unit named s. The empty string means UnitCharacter.
func ParseUnit(s string) (Unit, bool) {
	if s == "" {
		return UnitCharacter, true
	}
	u, ok := unitNames[s]
	return u, ok
}

func (u Unit) String() string {
	for name, v := range unitNames {
		if v == u {
			return name
		}
	}
	return "unknown"
}

// InsertText inserts s at the cursor, replacing a non-collapsed selection
// first. A lone space typed on a collapsed cursor is offered to the markdown
// shortcuts before it is inserted. Text is never inserted into a void.
func (e *Editor) InsertText(s string) {
	if e.sel == nil || s == "" {
		return
	}
	if s == " " && e.sel.IsCollapsed() && e.autoformat() {
		e.emit()
		return
	}
	changed := false
	if !e.sel.IsCollapsed() {
		changed = e.deleteSelection()
	}
	cur, ok := e.cursor()
	if !ok || cur.block.IsVoid() {
		if changed {
			e.emit()
		}
		return
	}
	marks := e.currentMarks()
	e.pending = nil
	insertAt(cur.block, cur.off, s, marks)
	e.setCursor(anchor{block: cur.block, off: cur.off + len(s)})
	e.emit()
}

// insertAt splices a leaf of s with marks into block at offset off.
func insertAt(block *doc.Element, off int, s string, marks doc.Marks) {
	left, right := splitLeaves(block, off)
	children := make([]doc.Node, 0, len(left)+len(right)+1)
	children = append(children, left...)
	children = append(children, &doc.Text{Text: s, Marks: marks})
	children = append(children, right...)
	block.Children = children
	normalizeBlock(block)
}

// deleteSelection removes the selected content and collapses the selection
// onto where it started. It reports whether the tree changed.
func (e *Editor) deleteSelection() bool {
	start, end, ok := e.edges()
	if !ok {
		return false
	}
	if start.block == end.block && start.off == end.off {
		e.setCursor(start)
		return false
	}
	e.setCursor(e.deleteRange(start, end))
	return true
}

// deleteRange removes the content between two anchors in document order and
// returns where the cursor belongs afterwards. Blocks strictly between the
// edges are removed; voids at either edge are removed whole; the remainder of
// the end block is merged into the start block.
func (e *Editor) deleteRange(start, end anchor) anchor {
	if start.block == end.block {
		cutBlock(start.block, start.off, end.off)
		return start
	}

	var middle []*doc.Element
	in := false
	for _, b := range e.doc.Blocks() {
		if b.Element == end.block {
			break
		}
		if in {
			middle = append(middle, b.Element)
		}
		if b.Element == start.block {
			in = true
		}
	}
	for _, b := range middle {
		e.removeElement(b)
	}

	switch {
	case start.block.IsVoid() && end.block.IsVoid():
		prev, _ := e.neighbours(start.block)
		_, next := e.neighbours(end.block)
		e.removeElement(start.block)
		e.removeElement(end.block)
		return e.fallbackAnchor(prev, next)
	case start.block.IsVoid():
		cutBlock(end.block, 0, end.off)
		e.removeElement(start.block)
		return anchor{block: end.block}
	case end.block.IsVoid():
		cutBlock(start.block, start.off, blockLen(start.block))
		e.removeElement(end.block)
		return start
	}

	cutBlock(start.block, start.off, blockLen(start.block))
	cutBlock(end.block, 0, end.off)
	e.mergeInto(start.block, end.block)
	return start
}

// fallbackAnchor picks where the cursor lands after the block it was in has
// gone: the start of next, else the end of prev, else the default paragraph.
func (e *Editor) fallbackAnchor(prev, next *doc.Element) anchor {
	if next != nil {
		if _, ok := e.doc.PathOf(next); ok {
			return anchor{block: next}
		}
	}
	if prev != nil {
		if _, ok := e.doc.PathOf(prev); ok {
			return anchor{block: prev, off: blockLen(prev)}
		}
	}
	if p := e.ensureNonEmpty(); p != nil {
		return anchor{block: p}
	}
	b := e.doc.Blocks()[0].Element
	return anchor{block: b}
}

// mergeInto appends src's leaves to dst and removes src.
func (e *Editor) mergeInto(dst, src *doc.Element) {
	dst.Children = append(dst.Children, src.Children...)
	normalizeBlock(dst)
	e.removeElement(src)
}

// removeVoidAt removes the void holding the cursor. The cursor moves to the
// end of the previous block when backward is set, else to the start of the
// next one, falling back to the other side.
func (e *Editor) removeVoidAt(v *doc.Element, backward bool) {
	prev, next := e.neighbours(v)
	e.removeElement(v)
	if backward {
		if prev != nil {
			e.setCursor(anchor{block: prev, off: blockLen(prev)})
			return
		}
		e.setCursor(e.fallbackAnchor(nil, next))
		return
	}
	e.setCursor(e.fallbackAnchor(prev, next))
}

// DeleteBackward removes one unit before the cursor, or the selection when
// it is not collapsed. At the start of a block it falls back to a
// structural edit: a code-block reverts to a paragraph, a list-item is lifted
// out of its list, and any other block merges into the one before it.
func (e *Editor) DeleteBackward(unit Unit) {
	if e.sel == nil {
		return
	}
	e.pending = nil
	if !e.sel.IsCollapsed() {
		if e.deleteSelection() {
			e.emit()
		}
		return
	}
	cur, ok := e.cursor()
	if !ok {
		return
	}
	b := cur.block
	switch {
	case b.IsVoid():
		e.removeVoidAt(b, true)
	case cur.off > 0:
		from := cur.off - backwardSpan(doc.BlockText(b)[:cur.off], unit)
		cutBlock(b, from, cur.off)
		e.setCursor(anchor{block: b, off: from})
	case b.Kind == doc.KindCodeBlock:
		b.Kind = doc.KindParagraph
		e.setCursor(cur)
	case b.Kind == doc.KindListItem:
		if !e.liftItems([]*doc.Element{b}, doc.KindParagraph) {
			return
		}
		e.setCursor(cur)
	default:
		prev, _ := e.neighbours(b)
		switch {
		case prev == nil:
			return
		case prev.IsVoid():
			e.removeElement(prev)
			e.setCursor(cur)
		default:
			n := blockLen(prev)
			e.mergeInto(prev, b)
			e.setCursor(anchor{block: prev, off: n})
		}
	}
	e.emit()
}

// DeleteForward removes one unit after the cursor, or the selection when it
// is not collapsed. At the end of a block the next block is merged in, or
// removed when it is a void.
func (e *Editor) DeleteForward(unit Unit) {
	if e.sel == nil {
		return
	}
	e.pending = nil
	if !e.sel.IsCollapsed() {
		if e.deleteSelection() {
			e.emit()
		}
		return
	}
	cur, ok := e.cursor()
	if !ok {
		return
	}
	b := cur.block
	switch n := blockLen(b); {
	case b.IsVoid():
		e.removeVoidAt(b, false)
	case cur.off < n:
		to := cur.off + forwardSpan(doc.BlockText(b)[cur.off:], unit)
		cutBlock(b, cur.off, to)
		e.setCursor(cur)
	default:
		_, next := e.neighbours(b)
		switch {
		case next == nil:
			return
		case next.IsVoid():
			e.removeElement(next)
		default:
			e.mergeInto(b, next)
		}
		e.setCursor(cur)
	}
	e.emit()
}

// InsertBreak splits the current block at the cursor. Inside a code-block it
// inserts a newline instead; on a void it opens an empty paragraph below; in
// an empty list-item it lifts the item out of its list. Splitting at the end
// of a heading starts a paragraph.
func (e *Editor) InsertBreak() {
	if e.sel == nil {
		return
	}
	e.pending = nil
	if !e.sel.IsCollapsed() {
		e.deleteSelection()
	}
	cur, ok := e.cursor()
	if !ok {
		return
	}
	b := cur.block
	switch {
	case b.Kind == doc.KindCodeBlock:
		insertAt(b, cur.off, "\n", e.leafMarks())
		e.setCursor(anchor{block: b, off: cur.off + 1})
	case b.IsVoid():
		p := doc.NewParagraph()
		e.insertAfter(b, p)
		e.setCursor(anchor{block: p})
	case b.Kind == doc.KindListItem && blockLen(b) == 0:
		e.liftItems([]*doc.Element{b}, doc.KindParagraph)
		e.setCursor(cur)
	default:
		kind := b.Kind
		if isHeading(kind) && cur.off == blockLen(b) {
			kind = doc.KindParagraph
		}
		left, right := splitLeaves(b, cur.off)
		next := &doc.Element{Kind: kind, Children: right}
		b.Children = left
		normalizeBlock(b)
		normalizeBlock(next)
		e.insertAfter(b, next)
		e.setCursor(anchor{block: next})
	}
	e.emit()
}

func isHeading(k doc.Kind) bool {
	return k == doc.KindHeadingOne || k == doc.KindHeadingTwo
}

// backwardSpan returns the byte length of the unit ending at the end of s.
func backwardSpan(s string, unit Unit) int {
	if unit == UnitBlock {
		return len(s)
	}
	segs := segments(s, unit)
	n, i := 0, len(segs)-1
	if unit == UnitWord {
		for i >= 0 && strings.TrimSpace(segs[i]) == "" {
			n += len(segs[i])
			i--
		}
	}
	if i >= 0 {
		n += len(segs[i])
	}
	return n
}

// forwardSpan returns the byte length of the unit starting at the start of s.
func forwardSpan(s string, unit Unit) int {
	if unit == UnitBlock {
		return len(s)
	}
	segs := segments(s, unit)
	n, i := 0, 0
	if unit == UnitWord {
		for i < len(segs) && strings.TrimSpace(segs[i]) == "" {
			n += len(segs[i])
			i++
		}
	}
	if i < len(segs) {
		n += len(segs[i])
	}
	return n
}

// segments splits s into grapheme clusters or words.
func segments(s string, unit Unit) []string {
	var out []string
	state := -1
	for s != "" {
		var seg string
		if unit == UnitWord {
			seg, s, state = uniseg.FirstWordInString(s, state)
		} else {
			seg, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		}
		out = append(out, seg)
	}
	return out
}
