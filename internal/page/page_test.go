package page_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/eykd/pagemark-go/internal/doc"
	"github.com/eykd/pagemark-go/internal/page"
)

const (
	testID = "0192f0c1-3e7a-7000-8000-5a4b3c2d1e0f"
	testTS = "2026-02-28T15:04:05Z"
)

// pageBytes returns page file bytes for id with the given body.
func pageBytes(id, body string) []byte {
	return []byte("---\n" +
		"id: " + id + "\n" +
		"created: " + testTS + "\n" +
		"updated: " + testTS + "\n" +
		"---\n" + body)
}

const validBody = `[{"type":"paragraph","children":[{"text":"hello"}]}]`

// ─── filenames ──────────────────────────────────────────────────────────────

func TestIsPageFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{filename: testID + ".page", want: true},
		{filename: testID + ".md", want: false},
		{filename: strings.ToUpper(testID) + ".page", want: false},
		{filename: "0192f0c1-3e7a-4000-8000-5a4b3c2d1e0f.page", want: false},
		{filename: "notes.page", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := page.IsPageFilename(tt.filename); got != tt.want {
				t.Errorf("IsPageFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

// ─── New ────────────────────────────────────────────────────────────────────

func TestNew(t *testing.T) {
	p, err := page.New("Chapter One")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !page.IsPageFilename(p.Filename()) {
		t.Errorf("Filename() = %q, want a UUIDv7 page filename", p.Filename())
	}
	if p.Created == "" || p.Created != p.Updated {
		t.Errorf("timestamps = %q/%q, want equal and set", p.Created, p.Updated)
	}
	if !p.Body.IsEmpty() {
		t.Error("a new page should hold the default document")
	}
}

func TestNew_RejectsBadTitles(t *testing.T) {
	for _, title := range []string{"bad\x00title", "line\nbreak", strings.Repeat("x", 501)} {
		if _, err := page.New(title); err == nil {
			t.Errorf("New(%q) error = nil, want an error", title)
		}
	}
}

// ─── Parse / Serialize ──────────────────────────────────────────────────────

func TestParse(t *testing.T) {
	p, err := page.Parse(pageBytes(testID, validBody+"\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.ID != testID || p.Created != testTS {
		t.Errorf("frontmatter = %+v", p.Frontmatter)
	}
	if p.Repaired {
		t.Error("a canonical body should not be marked repaired")
	}
	if got := doc.BlockText(p.Body.Children[0].(*doc.Element)); got != "hello" {
		t.Errorf("body text = %q, want hello", got)
	}
}

func TestParse_RepairsBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "hello"},
		{name: "empty", body: ""},
		{name: "unknown kind", body: `[{"type":"table","children":[{"text":"x"}]}]`},
		{name: "legacy string leaf", body: `[{"type":"paragraph","children":["x"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := page.Parse(pageBytes(testID, tt.body))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !p.Repaired {
				t.Error("Repaired = false, want true")
			}
			if diags := doc.Validate(p.Body); doc.HasErrors(diags) {
				t.Errorf("body invalid after load: %v", diags)
			}
		})
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	_, err := page.Parse([]byte(validBody))
	if !errors.Is(err, page.ErrNoFrontmatter) {
		t.Errorf("Parse() error = %v, want ErrNoFrontmatter", err)
	}
}

func TestParse_BadYAML(t *testing.T) {
	_, err := page.Parse([]byte("---\nid: [unclosed\n---\n[]"))
	if err == nil || errors.Is(err, page.ErrNoFrontmatter) {
		t.Errorf("Parse() error = %v, want a YAML error", err)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	p, err := page.New("A: title with a colon")
	if err != nil {
		t.Fatal(err)
	}
	p.Body = doc.Sanitize([]byte(validBody))
	out, err := page.Serialize(p)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	if !strings.HasPrefix(string(out), "---\nid: "+p.ID+"\n") {
		t.Errorf("Serialize() does not start with the id:\n%s", out)
	}
	back, err := page.Parse(out)
	if err != nil {
		t.Fatalf("Parse(Serialize()) error = %v", err)
	}
	if back.Frontmatter != p.Frontmatter {
		t.Errorf("frontmatter = %+v, want %+v", back.Frontmatter, p.Frontmatter)
	}
	if back.Repaired {
		t.Error("a serialized page should load without repair")
	}
	got, _ := json.Marshal(back.Body)
	if string(got) != validBody {
		t.Errorf("body = %s, want %s", got, validBody)
	}
}

func TestSerializeFrontmatter_OmitsEmptyTitle(t *testing.T) {
	out, err := page.SerializeFrontmatter(page.Frontmatter{ID: testID, Created: testTS, Updated: testTS})
	if err != nil {
		t.Fatal(err)
	}
	want := "---\nid: " + testID + "\ncreated: " + testTS + "\nupdated: " + testTS + "\n---\n"
	if string(out) != want {
		t.Errorf("SerializeFrontmatter() = %q, want %q", out, want)
	}
}

func TestFromDocument_Copies(t *testing.T) {
	d := doc.Sanitize([]byte(validBody))
	p, err := page.FromDocument("", d)
	if err != nil {
		t.Fatal(err)
	}
	d.Children[0].(*doc.Element).Children[0].(*doc.Text).Text = "changed"
	if got := doc.BlockText(p.Body.Children[0].(*doc.Element)); got != "hello" {
		t.Errorf("page body changed with its source: %q", got)
	}
}
