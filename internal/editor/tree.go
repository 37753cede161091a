package editor

import "github.com/eykd/pagemark-go/internal/doc"

// Low-level tree surgery. Helpers address nodes by identity and re-resolve
// paths on every call; none of them touches the selection.

// spliceAt replaces count siblings starting at path with repl.
func (e *Editor) spliceAt(path doc.Path, count int, repl ...doc.Node) bool {
	parent := path.Parent()
	siblings, ok := e.doc.ChildrenAt(parent)
	idx := path.Last()
	if !ok || idx < 0 || idx+count > len(siblings) {
		return false
	}
	out := make([]doc.Node, 0, len(siblings)-count+len(repl))
	out = append(out, siblings[:idx]...)
	out = append(out, repl...)
	out = append(out, siblings[idx+count:]...)
	return e.doc.SetChildrenAt(parent, out)
}

// insertAfter places n as the next sibling of ref.
func (e *Editor) insertAfter(ref doc.Node, n ...doc.Node) bool {
	path, ok := e.doc.PathOf(ref)
	if !ok {
		return false
	}
	return e.spliceAt(path.Next(), 0, n...)
}

// removeElement detaches el. A list container left without items is removed
// as well.
func (e *Editor) removeElement(el *doc.Element) bool {
	path, ok := e.doc.PathOf(el)
	if !ok {
		return false
	}
	parent, _ := e.doc.ElementAt(path.Parent())
	if !e.spliceAt(path, 1) {
		return false
	}
	if parent != nil && len(parent.Children) == 0 {
		if parent.Kind.IsList() {
			return e.removeElement(parent)
		}
		parent.Children = []doc.Node{doc.NewText("")}
	}
	return true
}

// parentList returns the list container holding item.
func (e *Editor) parentList(item *doc.Element) (*doc.Element, bool) {
	path, ok := e.doc.PathOf(item)
	if !ok {
		return nil, false
	}
	parent, ok := e.doc.ElementAt(path.Parent())
	if !ok || !parent.Kind.IsList() {
		return nil, false
	}
	return parent, true
}

// liftItems unwraps a contiguous run of items out of their list, retyping
// them to kind. Items before the run stay in the original container; items
// after it move to a new container of the same kind, so the siblings on both
// sides remain valid lists.
func (e *Editor) liftItems(items []*doc.Element, kind doc.Kind) bool {
	if len(items) == 0 {
		return false
	}
	list, ok := e.parentList(items[0])
	if !ok {
		return false
	}
	first, last := -1, -1
	for i, c := range list.Children {
		for _, it := range items {
			if c == doc.Node(it) {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
	}
	if first < 0 {
		return false
	}
	listPath, _ := e.doc.PathOf(list)
	before := append([]doc.Node(nil), list.Children[:first]...)
	span := list.Children[first : last+1]
	after := append([]doc.Node(nil), list.Children[last+1:]...)

	var repl []doc.Node
	if len(before) > 0 {
		list.Children = before
		repl = append(repl, list)
	}
	for _, n := range span {
		if it, ok := n.(*doc.Element); ok {
			it.Kind = kind
			repl = append(repl, it)
		}
	}
	if len(after) > 0 {
		repl = append(repl, &doc.Element{Kind: list.Kind, Children: after})
	}
	return e.spliceAt(listPath, 1, repl...)
}

// wrapBlocks demotes a contiguous run of sibling text blocks to list-items
// and wraps them in one new container of kind.
func (e *Editor) wrapBlocks(blocks []*doc.Element, kind doc.Kind) bool {
	if len(blocks) == 0 || !kind.IsList() {
		return false
	}
	path, ok := e.doc.PathOf(blocks[0])
	if !ok {
		return false
	}
	container := &doc.Element{Kind: kind}
	for _, b := range blocks {
		b.Kind = doc.KindListItem
		b.URL = ""
		container.Children = append(container.Children, b)
	}
	return e.spliceAt(path, len(blocks), container)
}

// hasKind reports whether el already is kind, counting a list-item as being
// of its container's kind.
func (e *Editor) hasKind(el *doc.Element, kind doc.Kind) bool {
	if el.Kind == kind {
		return true
	}
	if el.Kind == doc.KindListItem && kind.IsList() {
		list, ok := e.parentList(el)
		return ok && list.Kind == kind
	}
	return false
}

// setType changes el to kind, entering or leaving lists as needed.
func (e *Editor) setType(el *doc.Element, kind doc.Kind) bool {
	switch {
	case el.Kind.IsList():
		if kind.IsList() {
			if el.Kind == kind {
				return false
			}
			el.Kind = kind
			return true
		}
		items := make([]*doc.Element, 0, len(el.Children))
		for _, c := range el.Children {
			if it, ok := c.(*doc.Element); ok {
				items = append(items, it)
			}
		}
		return e.liftItems(items, kind)

	case el.Kind == doc.KindListItem:
		if e.hasKind(el, kind) {
			return false
		}
		if !e.liftItems([]*doc.Element{el}, doc.KindParagraph) {
			return false
		}
		if kind.IsList() {
			return e.wrapBlocks([]*doc.Element{el}, kind)
		}
		el.Kind = kind
		return true

	case kind.IsList():
		if el.IsVoid() {
			return false
		}
		return e.wrapBlocks([]*doc.Element{el}, kind)
	}

	if el.Kind == kind {
		return false
	}
	el.Kind = kind
	el.URL = ""
	return true
}

// validTarget reports whether blocks may be retyped to kind. List-items only
// exist inside containers and voids are inserted, never converted into.
func validTarget(kind doc.Kind) bool {
	if _, ok := doc.ParseKind(string(kind)); !ok {
		return false
	}
	return kind != doc.KindListItem && !kind.IsVoid()
}

// normalizeBlock merges adjacent leaves with equal marks and drops empty
// leaves, keeping at least one. Block offsets are unchanged.
func normalizeBlock(block *doc.Element) {
	if block.IsVoid() {
		block.Children = []doc.Node{doc.NewText("")}
		return
	}
	var out []doc.Node
	for _, c := range block.Children {
		t, ok := c.(*doc.Text)
		if !ok {
			continue
		}
		if len(out) > 0 {
			prev := out[len(out)-1].(*doc.Text)
			switch {
			case t.Text == "":
				continue
			case prev.Text == "":
				out[len(out)-1] = t
				continue
			case prev.Marks == t.Marks:
				prev.Text += t.Text
				continue
			}
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		out = []doc.Node{doc.NewText("")}
	}
	block.Children = out
}

// cutBlock removes the text between block offsets from and to.
func cutBlock(block *doc.Element, from, to int) {
	if from >= to {
		return
	}
	pos := 0
	for _, c := range block.Children {
		t, ok := c.(*doc.Text)
		if !ok {
			continue
		}
		lo, hi := pos, pos+t.Len()
		pos = hi
		a, b := max(from, lo), min(to, hi)
		if a < b {
			t.Text = t.Text[:a-lo] + t.Text[b-lo:]
		}
	}
	normalizeBlock(block)
}

// splitLeaves divides the block's leaves at off, returning the leaves before
// and after it. The block itself is not modified.
func splitLeaves(block *doc.Element, off int) (left, right []doc.Node) {
	pos := 0
	for _, c := range block.Children {
		t, ok := c.(*doc.Text)
		if !ok {
			continue
		}
		lo, hi := pos, pos+t.Len()
		pos = hi
		switch {
		case hi <= off:
			left = append(left, t)
		case lo >= off:
			right = append(right, t)
		default:
			left = append(left, &doc.Text{Text: t.Text[:off-lo], Marks: t.Marks})
			right = append(right, &doc.Text{Text: t.Text[off-lo:], Marks: t.Marks})
		}
	}
	if len(left) == 0 {
		left = []doc.Node{&doc.Text{Marks: firstMarks(right)}}
	}
	if len(right) == 0 {
		right = []doc.Node{&doc.Text{Marks: lastMarks(left)}}
	}
	return left, right
}

func firstMarks(nodes []doc.Node) doc.Marks {
	if len(nodes) > 0 {
		if t, ok := nodes[0].(*doc.Text); ok {
			return t.Marks
		}
	}
	return doc.Marks{}
}

func lastMarks(nodes []doc.Node) doc.Marks {
	if len(nodes) > 0 {
		if t, ok := nodes[len(nodes)-1].(*doc.Text); ok {
			return t.Marks
		}
	}
	return doc.Marks{}
}
