package editor

import (
	"slices"

	"github.com/eykd/pagemark-go/internal/doc"
)

// InsertBlockAfter inserts a copy of el as the top-level sibling following
// the block at p. A paragraph-like block receives the cursor; voids leave the
// selection where it was, and an image is followed by an empty paragraph so
// the cursor always has somewhere to go. It reports whether el was inserted.
func (e *Editor) InsertBlockAfter(p doc.Path, el *doc.Element) bool {
	if el == nil || len(p) == 0 {
		return false
	}
	if el.Kind == doc.KindListItem || doc.HasErrors(doc.Validate(&doc.Document{Children: []doc.Node{el}})) {
		e.logger.Debug("insert block: invalid element", "kind", string(el.Kind))
		return false
	}
	ref, ok := e.doc.ElementAt(p[:1])
	if !ok {
		e.logger.Debug("insert block: stale path", "path", p.String())
		return false
	}
	block := doc.CloneNode(el).(*doc.Element)
	nodes := []doc.Node{block}
	if block.Kind == doc.KindImage {
		nodes = append(nodes, doc.NewParagraph())
	}
	saved := e.save()
	if !e.insertAfter(ref, nodes...) {
		return false
	}
	switch {
	case block.IsVoid():
		if !e.restore(saved) && e.sel == nil {
			e.setCursor(anchor{block: block})
		}
	case block.Kind.IsList():
		e.setCursor(anchor{block: block.Children[0].(*doc.Element)})
	default:
		e.setCursor(anchor{block: block})
	}
	e.emit()
	return true
}

// MoveNode moves the element at from to the sibling index named by to's
// last segment. Both paths must share a parent; a destination outside the
// parent's children, or equal to the source, leaves the tree unchanged.
func (e *Editor) MoveNode(from, to doc.Path) {
	if len(from) == 0 || len(to) != len(from) || !from.Parent().Equal(to.Parent()) {
		e.logger.Debug("move: paths are not siblings", "from", from.String(), "to", to.String())
		return
	}
	siblings, ok := e.doc.ChildrenAt(from.Parent())
	if !ok {
		return
	}
	i, j := from.Last(), to.Last()
	if i < 0 || i >= len(siblings) || j < 0 || j >= len(siblings) || i == j {
		return
	}
	n, ok := siblings[i].(*doc.Element)
	if !ok {
		return
	}
	saved := e.save()
	out := slices.Delete(slices.Clone(siblings), i, i+1)
	e.doc.SetChildrenAt(from.Parent(), slices.Insert(out, j, doc.Node(n)))
	e.restore(saved)
	e.emit()
}

// MoveBlockUp swaps the element at p with its previous sibling.
func (e *Editor) MoveBlockUp(p doc.Path) {
	prev, ok := p.Previous()
	if !ok {
		return
	}
	e.MoveNode(p, prev)
}

// MoveBlockDown swaps the element at p with its next sibling.
func (e *Editor) MoveBlockDown(p doc.Path) {
	if len(p) == 0 {
		return
	}
	e.MoveNode(p, p.Next())
}

// RemoveNode deletes the node at p. A stale path is ignored. Removing a leaf
// refills an emptied block, removing a list's last item removes the list,
// and emptying the document restores the default paragraph with the cursor
// in it. A selection inside the removed subtree moves to a neighbour.
func (e *Editor) RemoveNode(p doc.Path) {
	n, ok := e.doc.Get(p)
	if !ok {
		e.logger.Debug("remove: stale path", "path", p.String())
		return
	}
	saved := e.save()
	switch n := n.(type) {
	case *doc.Text:
		block, _ := e.doc.ElementAt(p.Parent())
		if block == nil || block.IsVoid() {
			return
		}
		e.spliceAt(p, 1)
		normalizeBlock(block)
		e.restore(saved)

	case *doc.Element:
		prev, next := e.neighbours(n)
		if !e.removeElement(n) {
			return
		}
		if para := e.ensureNonEmpty(); para != nil {
			e.setCursor(anchor{block: para})
			break
		}
		if !e.restore(saved) && saved != nil {
			e.setCursor(e.fallbackAnchor(prev, next))
		}
	}
	e.emit()
}
