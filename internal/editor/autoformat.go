package editor

import "github.com/eykd/pagemark-go/internal/doc"

// shortcuts maps markdown-style block prefixes to the kind they produce when
// followed by a space at the start of a block.
var shortcuts = map[string]doc.Kind{
	"#":   doc.KindHeadingOne,
	"##":  doc.KindHeadingTwo,
	"-":   doc.KindBulletedList,
	"*":   doc.KindBulletedList,
	"1.":  doc.KindNumberedList,
	">":   doc.KindBlockQuote,
	"```": doc.KindCodeBlock,
}

// autoformat converts the cursor's block when the text before the cursor is
// exactly a shortcut prefix. The prefix and the triggering space are both
// consumed. It reports whether a conversion happened.
func (e *Editor) autoformat() bool {
	cur, ok := e.cursor()
	if !ok {
		return false
	}
	b := cur.block
	if b.IsVoid() || b.Kind == doc.KindCodeBlock {
		return false
	}
	blockStart := doc.Point{Path: e.sel.Anchor.Path.Parent().Child(0)}
	prefix := doc.StringInRange(e.doc, doc.RangeBetween(blockStart, e.sel.Anchor))
	kind, ok := shortcuts[prefix]
	if !ok || e.hasKind(b, kind) {
		return false
	}
	cutBlock(b, 0, cur.off)
	e.applyKind([]*doc.Element{b}, kind)
	e.setCursor(anchor{block: b})
	e.logger.Debug("autoformat", "prefix", prefix, "kind", string(kind))
	return true
}
