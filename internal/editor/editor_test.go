package editor_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/eykd/pagemark-go/internal/doc"
	"github.com/eykd/pagemark-go/internal/editor"
)

// ─── helpers ────────────────────────────────────────────────────────────────

const (
	emptyDoc = `[{"type":"paragraph","children":[{"text":""}]}]`
)

func at(off int, path ...int) doc.Point {
	return doc.Point{Path: doc.Path(path), Offset: off}
}

func newEditor(t *testing.T, js string, opts ...editor.Option) *editor.Editor {
	t.Helper()
	d := doc.Sanitize([]byte(js))
	if diags := doc.Validate(d); len(diags) != 0 {
		t.Fatalf("fixture is not a valid document: %v", diags)
	}
	return editor.New(d, opts...)
}

func render(t *testing.T, e *editor.Editor) string {
	t.Helper()
	b, err := json.Marshal(e.Document())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func assertValid(t *testing.T, e *editor.Editor) {
	t.Helper()
	d := e.Document()
	if len(d.Children) == 0 {
		t.Fatal("document is empty")
	}
	if diags := doc.Validate(d); doc.HasErrors(diags) {
		t.Fatalf("document invalid: %v\n%s", diags, render(t, e))
	}
}

func assertDoc(t *testing.T, e *editor.Editor, want string) {
	t.Helper()
	assertValid(t, e)
	if got := render(t, e); got != want {
		t.Errorf("document =\n  %s\nwant\n  %s", got, want)
	}
}

func assertCursor(t *testing.T, e *editor.Editor, want doc.Point) {
	t.Helper()
	sel, ok := e.Selection()
	if !ok {
		t.Fatalf("no selection, want cursor at %v", want)
	}
	if !sel.IsCollapsed() || !sel.Anchor.Equal(want) {
		t.Errorf("selection = %+v, want cursor at %+v", sel, want)
	}
}

func caret(t *testing.T, e *editor.Editor, p doc.Point) {
	t.Helper()
	if !e.Select(doc.Collapsed(p)) {
		t.Fatalf("Select(%v) failed", p)
	}
}

func span(t *testing.T, e *editor.Editor, a, f doc.Point) {
	t.Helper()
	if !e.Select(doc.RangeBetween(a, f)) {
		t.Fatalf("Select(%v, %v) failed", a, f)
	}
}

// ─── session ────────────────────────────────────────────────────────────────

func TestNew_NilStartsWithDefaultParagraph(t *testing.T) {
	e := editor.New(nil)
	assertDoc(t, e, emptyDoc)
	if _, ok := e.Selection(); ok {
		t.Error("new editor should have no selection")
	}
}

func TestNew_InvalidContentIsSanitized(t *testing.T) {
	bad := &doc.Document{Children: []doc.Node{
		&doc.Element{Kind: doc.KindBulletedList, Children: []doc.Node{doc.NewText("loose")}},
		&doc.Element{Kind: doc.KindParagraph},
	}}
	e := editor.New(bad)
	assertValid(t, e)
}

func TestNew_CopiesContent(t *testing.T) {
	d := doc.New()
	e := editor.New(d)
	d.Children = nil
	assertDoc(t, e, emptyDoc)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "garbage", raw: `{{{`, want: emptyDoc},
		{name: "null", raw: `null`, want: emptyDoc},
		{name: "legacy strings", raw: `[{"type":"paragraph","children":["hi"]}]`, want: `[{"type":"paragraph","children":[{"text":"hi"}]}]`},
		{name: "alias kind", raw: `[{"type":"heading-1","children":[{"text":"T"}]}]`, want: `[{"type":"heading-one","children":[{"text":"T"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDoc(t, editor.Load([]byte(tt.raw)), tt.want)
		})
	}
}

func TestDocument_ReturnsCopy(t *testing.T) {
	e := editor.New(nil)
	d := e.Document()
	d.Children = append(d.Children, doc.NewParagraph())
	assertDoc(t, e, emptyDoc)
}

func TestOnChange_ReceivesCopyAfterEachMutation(t *testing.T) {
	var got []*doc.Document
	e := editor.New(nil, editor.WithOnChange(func(d *doc.Document) { got = append(got, d) }))
	e.SelectStart(doc.Path{0})
	e.InsertText("a")
	e.InsertText("b")
	if len(got) != 2 {
		t.Fatalf("onChange called %d times, want 2", len(got))
	}
	got[1].Children = nil
	assertDoc(t, e, `[{"type":"paragraph","children":[{"text":"ab"}]}]`)
}

func TestOnChange_NotCalledForNoOps(t *testing.T) {
	calls := 0
	e := editor.New(nil, editor.WithOnChange(func(*doc.Document) { calls++ }))
	e.InsertText("ignored without a selection")
	e.RemoveNode(doc.Path{7})
	e.MoveBlockUp(doc.Path{0})
	e.SelectStart(doc.Path{0})
	e.ToggleMark(doc.MarkBold)
	e.DeleteBackward(editor.UnitCharacter)
	if calls != 0 {
		t.Errorf("onChange called %d times, want 0", calls)
	}
}

func TestWithLogger_TracesStalePaths(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := editor.New(nil, editor.WithLogger(logger))
	e.RemoveNode(doc.Path{3})
	if !strings.Contains(buf.String(), "stale path") {
		t.Errorf("log = %q, want a stale path trace", buf.String())
	}
}

// ─── selection ──────────────────────────────────────────────────────────────

func TestSelect(t *testing.T) {
	const js = `[{"type":"paragraph","children":[{"text":"héllo"}]},{"type":"image","url":"u","children":[{"text":""}]}]`
	tests := []struct {
		name string
		in   doc.Point
		want doc.Point
		ok   bool
	}{
		{name: "plain", in: at(1, 0, 0), want: at(1, 0, 0), ok: true},
		{name: "clamped", in: at(99, 0, 0), want: at(6, 0, 0), ok: true},
		{name: "negative", in: at(-3, 0, 0), want: at(0, 0, 0), ok: true},
		{name: "inside a rune", in: at(2, 0, 0), want: at(1, 0, 0), ok: true},
		{name: "void", in: at(4, 1, 0), want: at(0, 1, 0), ok: true},
		{name: "element path", in: at(0, 0), ok: false},
		{name: "stale", in: at(0, 5, 0), ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t, js)
			if got := e.Select(doc.Collapsed(tt.in)); got != tt.ok {
				t.Fatalf("Select() = %v, want %v", got, tt.ok)
			}
			if tt.ok {
				assertCursor(t, e, tt.want)
			}
		})
	}
}

func TestSelectStartEnd(t *testing.T) {
	e := newEditor(t, `[{"type":"bulleted-list","children":[{"type":"list-item","children":[{"text":"ab"},{"text":"cd","bold":true}]}]}]`)
	if !e.SelectEnd(doc.Path{0}) {
		t.Fatal("SelectEnd failed")
	}
	assertCursor(t, e, at(2, 0, 0, 1))
	if !e.SelectStart(doc.Path{0}) {
		t.Fatal("SelectStart failed")
	}
	assertCursor(t, e, at(0, 0, 0, 0))
	if e.SelectStart(doc.Path{4}) {
		t.Error("SelectStart on a stale path should fail")
	}
	e.Deselect()
	if _, ok := e.Selection(); ok {
		t.Error("Deselect left a selection")
	}
}
