package page

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eykd/pagemark-go/internal/doc"
)

// Ext is the filename extension of page files.
const Ext = ".page"

// filenameRE matches lowercase UUIDv7 filenames with the page extension.
var filenameRE = regexp.MustCompile(
	`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}\.page$`,
)

// IsPageFilename reports whether filename is a lowercase UUIDv7 page filename.
func IsPageFilename(filename string) bool {
	return filenameRE.MatchString(filename)
}

// Filename returns the filename of the page with the given id.
func Filename(id string) string {
	return id + Ext
}

// now is the clock used for timestamps; tests replace it.
var now = time.Now

// NowUTC returns the current UTC time formatted as RFC3339 with second-level
// precision and a "Z" suffix, e.g. "2006-01-02T15:04:05Z".
func NowUTC() string {
	return now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Page is a document together with its frontmatter.
type Page struct {
	Frontmatter
	Body *doc.Document
	// Repaired is set by Parse when the stored body was not already in
	// canonical form and had to be sanitized.
	Repaired bool
}

// New returns an empty page with a fresh UUIDv7 id.
func New(title string) (*Page, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating page id: %w", err)
	}
	ts := NowUTC()
	return &Page{
		Frontmatter: Frontmatter{ID: id.String(), Title: title, Created: ts, Updated: ts},
		Body:        doc.New(),
	}, nil
}

// FromDocument returns a new page holding a copy of d.
func FromDocument(title string, d *doc.Document) (*Page, error) {
	p, err := New(title)
	if err != nil {
		return nil, err
	}
	p.Body = d.Clone()
	return p, nil
}

// Filename returns the page's filename.
func (p *Page) Filename() string {
	return Filename(p.ID)
}

// Touch sets the updated timestamp to now.
func (p *Page) Touch() {
	p.Updated = NowUTC()
}

// Parse reads a page file. The body is always sanitized, so the returned
// page holds a valid document even when the stored JSON was damaged.
func Parse(content []byte) (*Page, error) {
	fm, body, err := ParseFrontmatter(content)
	if err != nil {
		return nil, err
	}
	d, repaired := loadBody(body)
	return &Page{Frontmatter: fm, Body: d, Repaired: repaired}, nil
}

// Serialize renders p as frontmatter followed by its indented JSON body.
func Serialize(p *Page) ([]byte, error) {
	out, err := SerializeFrontmatter(p.Frontmatter)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(p.Body, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding body: %w", err)
	}
	out = append(out, body...)
	return append(out, '\n'), nil
}

// loadBody sanitizes body and reports whether sanitizing changed its meaning.
func loadBody(body []byte) (*doc.Document, bool) {
	d := doc.Sanitize(body)
	if strings.TrimSpace(string(body)) == "" {
		return d, true
	}
	var raw, canon any
	if err := json.Unmarshal(body, &raw); err != nil {
		return d, true
	}
	b, err := json.Marshal(d)
	if err != nil {
		return d, true
	}
	if err := json.Unmarshal(b, &canon); err != nil {
		return d, true
	}
	return d, !reflect.DeepEqual(raw, canon)
}
