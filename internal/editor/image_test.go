package editor_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/eykd/pagemark-go/internal/doc"
	"github.com/eykd/pagemark-go/internal/editor"
)

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

// ─── conversion ─────────────────────────────────────────────────────────────

func TestReadImage(t *testing.T) {
	url, err := editor.ReadImage(context.Background(), bytes.NewReader(pngBytes), 0)
	if err != nil {
		t.Fatalf("ReadImage() error = %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("ReadImage() = %q, want a png data URL", url)
	}
}

func TestReadImage_Errors(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	tests := []struct {
		name    string
		ctx     context.Context
		data    []byte
		limit   int64
		wantErr error
	}{
		{name: "not an image", ctx: context.Background(), data: []byte("hello, world"), wantErr: editor.ErrNotImage},
		{name: "too large", ctx: context.Background(), data: pngBytes, limit: 8, wantErr: editor.ErrImageTooLarge},
		{name: "canceled", ctx: canceled, data: pngBytes, wantErr: context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editor.ReadImage(tt.ctx, bytes.NewReader(tt.data), tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadImage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadImage_ReadFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := editor.ReadImage(context.Background(), iotest.ErrReader(boom), 0)
	if !errors.Is(err, boom) {
		t.Errorf("ReadImage() error = %v, want wrapped %v", err, boom)
	}
}

// ─── async boundary ─────────────────────────────────────────────────────────

func TestRequestImage_ThenComplete(t *testing.T) {
	var changes int
	e := newEditor(t, docJSON(p("a")), editor.WithOnChange(func(*doc.Document) { changes++ }))
	res := <-e.RequestImage(context.Background(), doc.Path{0}, bytes.NewReader(pngBytes))
	if changes != 0 {
		t.Fatal("the tree changed before CompleteImage")
	}
	if res.Err != nil {
		t.Fatalf("conversion error = %v", res.Err)
	}
	if err := e.CompleteImage(res); err != nil {
		t.Fatalf("CompleteImage() error = %v", err)
	}
	d := e.Document()
	if len(d.Children) != 3 {
		t.Fatalf("block count = %d, want 3", len(d.Children))
	}
	img := d.Children[1].(*doc.Element)
	if img.Kind != doc.KindImage || img.URL != res.URL {
		t.Errorf("block 1 = %s %q, want image %q", img.Kind, img.URL, res.URL)
	}
	assertValid(t, e)
	if changes != 1 {
		t.Errorf("onChange called %d times, want 1", changes)
	}
}

// closeRecorder notes when the conversion closes its reader.
type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestRequestImage_ClosesReaderWhenDone(t *testing.T) {
	r := &closeRecorder{Reader: bytes.NewReader(pngBytes)}
	e := newEditor(t, docJSON(p("a")))
	res := <-e.RequestImage(context.Background(), doc.Path{0}, r)
	if res.Err != nil {
		t.Fatalf("conversion error = %v", res.Err)
	}
	if !r.closed {
		t.Error("reader was not closed after the conversion")
	}
}

func TestCompleteImage_FailureInsertsNothing(t *testing.T) {
	e := newEditor(t, docJSON(p("a")))
	res := <-e.RequestImage(context.Background(), doc.Path{0}, strings.NewReader("plain text"))
	err := e.CompleteImage(res)
	if !errors.Is(err, editor.ErrNotImage) {
		t.Errorf("CompleteImage() error = %v, want ErrNotImage", err)
	}
	assertDoc(t, e, docJSON(p("a")))
}

func TestWithImageLimit(t *testing.T) {
	e := newEditor(t, docJSON(p("a")), editor.WithImageLimit(4))
	err := e.InsertImageFromFile(context.Background(), doc.Path{0}, bytes.NewReader(pngBytes))
	if !errors.Is(err, editor.ErrImageTooLarge) {
		t.Errorf("InsertImageFromFile() error = %v, want ErrImageTooLarge", err)
	}
	assertDoc(t, e, docJSON(p("a")))
}

func TestInsertImageFromFile(t *testing.T) {
	e := newEditor(t, docJSON(p("a")))
	caret(t, e, at(1, 0, 0))
	if err := e.InsertImageFromFile(context.Background(), doc.Path{0}, bytes.NewReader(pngBytes)); err != nil {
		t.Fatalf("InsertImageFromFile() error = %v", err)
	}
	assertValid(t, e)
	if got := e.Document().Children[1].(*doc.Element).Kind; got != doc.KindImage {
		t.Errorf("block 1 kind = %s, want image", got)
	}
	assertCursor(t, e, at(1, 0, 0))
}

func TestInsertImageBelow_IgnoresEmptyURL(t *testing.T) {
	e := newEditor(t, docJSON(p("a")))
	e.InsertImageBelow(doc.Path{0}, "  ")
	assertDoc(t, e, docJSON(p("a")))
}
