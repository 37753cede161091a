package editor

import "github.com/eykd/pagemark-go/internal/doc"

// ToggleMark flips mark over a non-collapsed selection. It is set on every
// covered leaf unless all of them already carry it, in which case it is
// cleared. On a collapsed cursor the mark is armed for the next inserted
// text instead; armed marks survive block retyping and are dropped when the
// selection moves, text is deleted, or a break is inserted.
func (e *Editor) ToggleMark(mark doc.Mark) {
	if e.sel == nil {
		return
	}
	if _, ok := doc.ParseMark(string(mark)); !ok {
		e.logger.Debug("toggle mark: unknown mark", "mark", string(mark))
		return
	}
	if e.sel.IsCollapsed() {
		cur := e.currentMarks()
		next := cur.With(mark, !cur.Has(mark))
		e.pending = &next
		return
	}

	v := !e.IsMarkActive(mark)
	saved := e.save()
	start, end, _ := e.edges()
	changed := false
	for _, b := range e.selectedBlocks() {
		if b.IsVoid() {
			continue
		}
		from, to := 0, blockLen(b)
		if b == start.block {
			from = start.off
		}
		if b == end.block {
			to = end.off
		}
		if from < to {
			setMarkRange(b, from, to, mark, v)
			changed = true
		}
	}
	if !changed {
		return
	}
	e.restore(saved)
	e.emit()
}

// setMarkRange sets mark to v on the text between block offsets from and to,
// splitting leaves at both edges.
func setMarkRange(block *doc.Element, from, to int, mark doc.Mark, v bool) {
	left, rest := splitLeaves(block, from)
	mid, right := splitLeaves(&doc.Element{Children: rest}, to-from)
	for _, n := range mid {
		if t, ok := n.(*doc.Text); ok {
			t.Marks = t.Marks.With(mark, v)
		}
	}
	children := make([]doc.Node, 0, len(left)+len(mid)+len(right))
	children = append(children, left...)
	children = append(children, mid...)
	children = append(children, right...)
	block.Children = children
	normalizeBlock(block)
}

// IsMarkActive reports whether mark applies to the whole selection. A range
// qualifies only when every leaf it overlaps carries the mark; a cursor
// reports the marks the next insert would use.
func (e *Editor) IsMarkActive(mark doc.Mark) bool {
	if e.sel == nil {
		return false
	}
	if e.sel.IsCollapsed() {
		return e.currentMarks().Has(mark)
	}
	start, end, ok := e.edges()
	if !ok {
		return false
	}
	seen := false
	for _, b := range e.selectedBlocks() {
		if b.IsVoid() {
			continue
		}
		from, to := 0, blockLen(b)
		if b == start.block {
			from = start.off
		}
		if b == end.block {
			to = end.off
		}
		pos := 0
		for _, c := range b.Children {
			t, ok := c.(*doc.Text)
			if !ok {
				continue
			}
			lo, hi := pos, pos+t.Len()
			pos = hi
			if max(lo, from) >= min(hi, to) {
				continue
			}
			seen = true
			if !t.Has(mark) {
				return false
			}
		}
	}
	return seen
}

// Marks returns the marks active for the selection, as IsMarkActive reports
// them, for toolbar rendering.
func (e *Editor) Marks() doc.Marks {
	var m doc.Marks
	for _, mark := range []doc.Mark{doc.MarkBold, doc.MarkItalic, doc.MarkCode} {
		m = m.With(mark, e.IsMarkActive(mark))
	}
	return m
}

// currentMarks returns the armed marks, or those of the leaf at the cursor.
func (e *Editor) currentMarks() doc.Marks {
	if e.pending != nil {
		return *e.pending
	}
	return e.leafMarks()
}

// leafMarks returns the marks of the leaf holding the selection's anchor.
func (e *Editor) leafMarks() doc.Marks {
	if e.sel == nil {
		return doc.Marks{}
	}
	t, ok := e.doc.TextAt(e.sel.Anchor.Path)
	if !ok {
		return doc.Marks{}
	}
	return t.Marks
}
