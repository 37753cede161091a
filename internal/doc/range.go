package doc

import "strings"

// Point addresses a byte offset inside a text leaf. Points inside a void
// always carry offset 0.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Equal reports whether p and q address the same position.
func (p Point) Equal(q Point) bool {
	return p.Path.Equal(q.Path) && p.Offset == q.Offset
}

// ComparePoints orders points by path, then offset.
func ComparePoints(a, b Point) int {
	if c := a.Path.Compare(b.Path); c != 0 {
		return c
	}
	switch {
	case len(a.Path) < len(b.Path):
		return -1
	case len(a.Path) > len(b.Path):
		return 1
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// Range is a selection: an anchor where it started and a focus where it
// ends. Direction only matters for which edge is reported as start or end.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed returns the cursor range at p.
func Collapsed(p Point) Range {
	return Range{Anchor: p, Focus: p}
}

// RangeBetween returns the range spanning a and b.
func RangeBetween(a, b Point) Range {
	return Range{Anchor: a, Focus: b}
}

// IsCollapsed reports whether r is a cursor.
func (r Range) IsCollapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// Edges returns the edges of r in document order.
func Edges(r Range) (start, end Point) {
	if ComparePoints(r.Anchor, r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}

// StringInRange concatenates the text of every leaf covered, fully or in
// part, by r. Void placeholders contribute nothing. Only the top-level blocks
// the range spans are visited.
func StringInRange(d *Document, r Range) string {
	start, end := Edges(r)
	if len(start.Path) == 0 || len(end.Path) == 0 {
		return ""
	}
	var b strings.Builder
	last := min(end.Path[0], len(d.Children)-1)
	for i := max(start.Path[0], 0); i <= last; i++ {
		collectText(&b, Path{i}, d.Children[i], start, end)
	}
	return b.String()
}

func collectText(b *strings.Builder, p Path, n Node, start, end Point) {
	switch n := n.(type) {
	case *Element:
		if n.IsVoid() {
			return
		}
		for i, c := range n.Children {
			collectText(b, p.Child(i), c, start, end)
		}
	case *Text:
		if ComparePoints(Point{Path: p, Offset: n.Len()}, start) < 0 || ComparePoints(Point{Path: p}, end) > 0 {
			return
		}
		from, to := 0, n.Len()
		if p.Equal(start.Path) {
			from = clamp(start.Offset, 0, n.Len())
		}
		if p.Equal(end.Path) {
			to = clamp(end.Offset, 0, n.Len())
		}
		if from < to {
			b.WriteString(n.Text[from:to])
		}
	}
}

// BlockText returns the concatenated leaf text of el.
func BlockText(el *Element) string {
	var b strings.Builder
	for _, c := range el.Children {
		if t, ok := c.(*Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
