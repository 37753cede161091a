package editor

import "github.com/eykd/pagemark-go/internal/doc"

// Match selects elements for WrapNodes and UnwrapNodes. A nil Match selects
// everything.
type Match func(el *doc.Element) bool

// MatchKind returns a Match selecting elements of kind k.
func MatchKind(k doc.Kind) Match {
	return func(el *doc.Element) bool { return el.Kind == k }
}

// UnwrapOptions tunes UnwrapNodes.
type UnwrapOptions struct {
	// Split unwraps only the selected items, leaving their siblings in
	// separate containers before and after them.
	Split bool
}

// IsBlockActive reports whether the element at the selection's anchor, or
// any element above it, has kind k.
func (e *Editor) IsBlockActive(k doc.Kind) bool {
	if e.sel == nil {
		return false
	}
	k, ok := doc.ParseKind(string(k))
	if !ok {
		return false
	}
	for _, el := range e.doc.Ancestors(e.sel.Anchor.Path) {
		if el.Kind == k {
			return true
		}
	}
	return false
}

// ToggleBlock converts the selected blocks to k, or back to paragraphs when k
// is already active. Voids in the selection are left alone.
func (e *Editor) ToggleBlock(k doc.Kind) {
	kind, ok := doc.ParseKind(string(k))
	if !ok || !validTarget(kind) {
		e.logger.Debug("toggle block: invalid kind", "kind", string(k))
		return
	}
	blocks := e.selectedTextBlocks()
	if len(blocks) == 0 {
		return
	}
	if e.IsBlockActive(kind) {
		kind = doc.KindParagraph
	}
	saved := e.save()
	if !e.applyKind(blocks, kind) {
		return
	}
	e.restore(saved)
	e.emit()
}

// SetNodeType retypes the element at p, entering or leaving lists as
// needed. Stale paths and invalid kinds are ignored.
func (e *Editor) SetNodeType(p doc.Path, k doc.Kind) {
	kind, ok := doc.ParseKind(string(k))
	if !ok || !validTarget(kind) {
		e.logger.Debug("set node type: invalid kind", "kind", string(k))
		return
	}
	el, ok := e.doc.ElementAt(p)
	if !ok {
		e.logger.Debug("set node type: stale path", "path", p.String())
		return
	}
	saved := e.save()
	if !e.setType(el, kind) {
		return
	}
	e.restore(saved)
	e.emit()
}

// WrapNodes wraps each contiguous run of selected top-level blocks accepted
// by match in a new list container of kind k.
func (e *Editor) WrapNodes(k doc.Kind, match Match) {
	if !k.IsList() {
		e.logger.Debug("wrap: not a list kind", "kind", string(k))
		return
	}
	var blocks []*doc.Element
	for _, b := range e.selectedTextBlocks() {
		if match == nil || match(b) {
			blocks = append(blocks, b)
		}
	}
	saved := e.save()
	changed := false
	for _, run := range e.topLevelRuns(blocks) {
		if e.wrapBlocks(run, k) {
			changed = true
		}
	}
	if !changed {
		return
	}
	e.restore(saved)
	e.emit()
}

// UnwrapNodes lifts the selected list-items out of every enclosing list
// accepted by match. Without Split the whole matched list is unwrapped.
// Lifted items become paragraphs.
func (e *Editor) UnwrapNodes(match Match, opts UnwrapOptions) {
	saved := e.save()
	changed := false
	for _, group := range e.itemGroups(e.selectedTextBlocks()) {
		list, ok := e.parentList(group[0])
		if !ok || (match != nil && !match(list)) {
			continue
		}
		items := group
		if !opts.Split {
			items = items[:0:0]
			for _, c := range list.Children {
				if it, ok := c.(*doc.Element); ok {
					items = append(items, it)
				}
			}
		}
		if e.liftItems(items, doc.KindParagraph) {
			changed = true
		}
	}
	if !changed {
		return
	}
	e.restore(saved)
	e.emit()
}

// applyKind converts blocks to kind. List kinds lift any list-items first
// and then wrap each contiguous run in one container; other kinds lift
// list-items straight to kind and retype the rest in place.
func (e *Editor) applyKind(blocks []*doc.Element, kind doc.Kind) bool {
	changed := false
	if kind.IsList() {
		if e.allInList(blocks, kind) {
			return false
		}
		for _, g := range e.itemGroups(blocks) {
			if e.liftItems(g, doc.KindParagraph) {
				changed = true
			}
		}
		for _, run := range e.topLevelRuns(blocks) {
			if e.wrapBlocks(run, kind) {
				changed = true
			}
		}
		return changed
	}
	for _, g := range e.itemGroups(blocks) {
		if e.liftItems(g, kind) {
			changed = true
		}
	}
	for _, b := range blocks {
		if b.IsVoid() || b.Kind == doc.KindListItem || b.Kind == kind {
			continue
		}
		b.Kind = kind
		changed = true
	}
	return changed
}

// allInList reports whether every block is an item of a kind list.
func (e *Editor) allInList(blocks []*doc.Element, kind doc.Kind) bool {
	for _, b := range blocks {
		if !e.hasKind(b, kind) {
			return false
		}
	}
	return len(blocks) > 0
}

// selectedTextBlocks returns the selected blocks that are not voids.
func (e *Editor) selectedTextBlocks() []*doc.Element {
	var out []*doc.Element
	for _, b := range e.selectedBlocks() {
		if !b.IsVoid() {
			out = append(out, b)
		}
	}
	return out
}

// itemGroups collects the list-items among blocks, grouped by container.
func (e *Editor) itemGroups(blocks []*doc.Element) [][]*doc.Element {
	var groups [][]*doc.Element
	var current *doc.Element
	for _, b := range blocks {
		if b.Kind != doc.KindListItem {
			continue
		}
		list, ok := e.parentList(b)
		if !ok {
			continue
		}
		if list != current || len(groups) == 0 {
			groups = append(groups, nil)
			current = list
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], b)
	}
	return groups
}

// topLevelRuns groups the top-level, non-void blocks into runs of adjacent
// siblings.
func (e *Editor) topLevelRuns(blocks []*doc.Element) [][]*doc.Element {
	var runs [][]*doc.Element
	last := -2
	for _, b := range blocks {
		p, ok := e.doc.PathOf(b)
		if !ok || len(p) != 1 || b.IsVoid() || b.Kind == doc.KindListItem {
			last = -2
			continue
		}
		if p[0] == last+1 && len(runs) > 0 {
			runs[len(runs)-1] = append(runs[len(runs)-1], b)
		} else {
			runs = append(runs, []*doc.Element{b})
		}
		last = p[0]
	}
	return runs
}
