// Package editor implements the editing session over a doc.Document: the
// transform engine, markdown shortcuts, toolbar state queries, hotkeys, the
// block menu and the asynchronous image boundary.
//
// An Editor is owned by a single goroutine. Every operation runs to
// completion before returning and never leaves the tree in an invalid state.
package editor

import (
	"log/slog"
	"unicode/utf8"

	"github.com/eykd/pagemark-go/internal/doc"
)

// DefaultImageLimit is the largest image file accepted by ReadImage when no
// limit is configured.
const DefaultImageLimit = 5 << 20

// Editor holds one page's live document, its selection and any marks armed
// for the next insert.
type Editor struct {
	doc      *doc.Document
	sel      *doc.Range
	pending  *doc.Marks
	onChange func(*doc.Document)
	logger   *slog.Logger
	imgLimit int64
	open     Opener
}

// Option configures an Editor.
type Option func(*Editor)

// WithOnChange registers fn to receive a copy of the document after every
// mutation that changed it.
func WithOnChange(fn func(*doc.Document)) Option {
	return func(e *Editor) { e.onChange = fn }
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithImageLimit caps the size of image files read by RequestImage.
func WithImageLimit(n int64) Option {
	return func(e *Editor) {
		if n > 0 {
			e.imgLimit = n
		}
	}
}

// WithOpener sets how image files named by the block menu or an image-file
// intent are opened.
func WithOpener(open Opener) Option {
	return func(e *Editor) { e.open = open }
}

// New starts a session over content. A nil or structurally invalid content
// is replaced by a sanitized copy; callers holding raw storage bytes should
// use Load.
func New(content *doc.Document, opts ...Option) *Editor {
	e := &Editor{
		logger:   slog.New(slog.DiscardHandler),
		imgLimit: DefaultImageLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if content == nil {
		e.doc = doc.New()
		return e
	}
	if diags := doc.Validate(content); doc.HasErrors(diags) {
		e.logger.Debug("content failed validation; sanitizing", "diagnostics", len(diags))
		e.doc = resanitize(content)
		return e
	}
	e.doc = content.Clone()
	return e
}

// Load starts a session from raw persisted JSON, which is always sanitized
// first.
func Load(raw []byte, opts ...Option) *Editor {
	return New(doc.Sanitize(raw), opts...)
}

// resanitize round-trips d through the sanitizer.
func resanitize(d *doc.Document) *doc.Document {
	b, err := d.MarshalJSON()
	if err != nil {
		return doc.New()
	}
	return doc.Sanitize(b)
}

// Document returns a copy of the current document.
func (e *Editor) Document() *doc.Document {
	return e.doc.Clone()
}

// Selection returns the current selection. ok is false when nothing is
// selected.
func (e *Editor) Selection() (doc.Range, bool) {
	if e.sel == nil {
		return doc.Range{}, false
	}
	return *e.sel, true
}

// Select replaces the selection. Points must address text leaves; offsets
// are clamped to the leaf and snapped to a rune boundary, and points inside
// voids are moved to offset 0. It reports false, leaving the selection
// unchanged, when either point does not resolve.
func (e *Editor) Select(r doc.Range) bool {
	anchor, ok1 := e.normalizePoint(r.Anchor)
	focus, ok2 := e.normalizePoint(r.Focus)
	if !ok1 || !ok2 {
		e.logger.Debug("select: stale point", "anchor", r.Anchor.Path.String(), "focus", r.Focus.Path.String())
		return false
	}
	next := doc.Range{Anchor: anchor, Focus: focus}
	if e.sel == nil || !e.sel.Anchor.Equal(next.Anchor) || !e.sel.Focus.Equal(next.Focus) {
		e.pending = nil
	}
	e.sel = &next
	return true
}

// SelectStart places the cursor at the start of the node at p.
func (e *Editor) SelectStart(p doc.Path) bool {
	pt, ok := e.doc.Start(p)
	if !ok {
		return false
	}
	return e.Select(doc.Collapsed(pt))
}

// SelectEnd places the cursor at the end of the node at p.
func (e *Editor) SelectEnd(p doc.Path) bool {
	pt, ok := e.doc.End(p)
	if !ok {
		return false
	}
	return e.Select(doc.Collapsed(pt))
}

// Deselect clears the selection.
func (e *Editor) Deselect() {
	e.sel = nil
	e.pending = nil
}

func (e *Editor) normalizePoint(p doc.Point) (doc.Point, bool) {
	t, ok := e.doc.TextAt(p.Path)
	if !ok {
		return doc.Point{}, false
	}
	parent, _ := e.doc.ElementAt(p.Path.Parent())
	if parent == nil || parent.Kind.IsList() {
		return doc.Point{}, false
	}
	off := max(0, min(p.Offset, t.Len()))
	if parent.IsVoid() {
		off = 0
	}
	for off > 0 && off < t.Len() && !utf8.RuneStart(t.Text[off]) {
		off--
	}
	return doc.Point{Path: p.Path.Clone(), Offset: off}, true
}

// emit hands the caller a copy of the document.
func (e *Editor) emit() {
	if e.onChange != nil {
		e.onChange(e.doc.Clone())
	}
}

// ensureNonEmpty restores the default paragraph when the root is empty and
// returns it, or nil when the document still has blocks.
func (e *Editor) ensureNonEmpty() *doc.Element {
	if len(e.doc.Children) > 0 {
		return nil
	}
	p := doc.NewParagraph()
	e.doc.Children = []doc.Node{p}
	return p
}
