package editor

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eykd/pagemark-go/internal/doc"
)

var (
	// ErrNotImage is returned when the bytes read are not a recognised image.
	ErrNotImage = errors.New("not an image")
	// ErrImageTooLarge is returned when the image exceeds the size limit.
	ErrImageTooLarge = errors.New("image too large")
)

// ReadImage reads an image from r and returns it as a base64 data URL. At
// most limit bytes are accepted; a non-positive limit means
// DefaultImageLimit.
func ReadImage(ctx context.Context, r io.Reader, limit int64) (string, error) {
	if limit <= 0 {
		limit = DefaultImageLimit
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, limit)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Opener opens a named image file.
type Opener func(ctx context.Context, name string) (io.ReadCloser, error)

// ImageResult is the outcome of an image conversion requested for the block
// at Path.
type ImageResult struct {
	Path doc.Path
	URL  string
	Err  error
}

// RequestImage starts converting r in the background. The returned channel
// delivers exactly one result; pass it to CompleteImage on the goroutine that
// owns the editor. The conversion touches no editor state. If r is an
// io.Closer it belongs to the conversion, which closes it when done.
func (e *Editor) RequestImage(ctx context.Context, p doc.Path, r io.Reader) <-chan ImageResult {
	out := make(chan ImageResult, 1)
	limit := e.imgLimit
	path := p.Clone()
	go func() {
		url, err := ReadImage(ctx, r, limit)
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		out <- ImageResult{Path: path, URL: url, Err: err}
	}()
	return out
}

// CompleteImage inserts the converted image below res.Path. A failed
// conversion is returned as an error and inserts nothing.
func (e *Editor) CompleteImage(res ImageResult) error {
	if res.Err != nil {
		e.logger.Debug("image conversion failed", "path", res.Path.String(), "error", res.Err)
		return fmt.Errorf("converting image: %w", res.Err)
	}
	e.InsertImageBelow(res.Path, res.URL)
	return nil
}

// InsertImageFromFile converts r and inserts the image below p, waiting for
// the conversion or for ctx to end.
func (e *Editor) InsertImageFromFile(ctx context.Context, p doc.Path, r io.Reader) error {
	select {
	case res := <-e.RequestImage(ctx, p, r):
		return e.CompleteImage(res)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InsertImageFile opens name with the editor's Opener and inserts the image
// below p.
func (e *Editor) InsertImageFile(ctx context.Context, p doc.Path, name string) error {
	if e.open == nil {
		return errors.New("no file opener configured")
	}
	f, err := e.open(ctx, name)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	return e.InsertImageFromFile(ctx, p, f)
}

// InsertImageBelow inserts an image pointing at url after the block at p.
// An empty url is ignored.
func (e *Editor) InsertImageBelow(p doc.Path, url string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	e.InsertBlockAfter(p, doc.NewImage(url))
}
