package page

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoFrontmatter is returned when a page file does not start with a
// frontmatter block.
var ErrNoFrontmatter = errors.New("no valid frontmatter block found")

// frontmatterRE matches a complete YAML frontmatter block at the start of a
// file. The closing "---" must appear unindented.
var frontmatterRE = regexp.MustCompile(`(?s)^---\n(.*?\n)?---\n`)

// ParseFrontmatter splits a page file's content into its Frontmatter and body.
func ParseFrontmatter(content []byte) (Frontmatter, []byte, error) {
	loc := frontmatterRE.FindSubmatchIndex(content)
	if loc == nil {
		return Frontmatter{}, nil, ErrNoFrontmatter
	}

	var fm Frontmatter
	if loc[2] >= 0 {
		if err := yaml.Unmarshal(content[loc[2]:loc[3]], &fm); err != nil {
			return Frontmatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
		}
	}
	return fm, append([]byte(nil), content[loc[1]:]...), nil
}

// SerializeFrontmatter renders fm as a canonical frontmatter block in the
// order id, title, created, updated. An empty title is omitted.
func SerializeFrontmatter(fm Frontmatter) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.WriteString("id: " + fm.ID + "\n")
	if fm.Title != "" {
		title, err := yaml.Marshal(fm.Title)
		if err != nil {
			return nil, fmt.Errorf("encoding title: %w", err)
		}
		buf.WriteString("title: ")
		buf.Write(title)
	}
	buf.WriteString("created: " + fm.Created + "\n")
	buf.WriteString("updated: " + fm.Updated + "\n")
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

// ValidateTitle rejects titles longer than 500 bytes or holding control
// characters other than tab.
func ValidateTitle(title string) error {
	if len(title) > 500 {
		return fmt.Errorf("title must be 500 characters or fewer")
	}
	for _, r := range title {
		if (r < 0x20 && r != '\t') || r == 0x7f {
			return fmt.Errorf("title must not contain control characters")
		}
	}
	return nil
}

// validateFrontmatter checks fm against the page's filename stem.
func validateFrontmatter(stem string, fm Frontmatter) []AuditDiagnostic {
	var diags []AuditDiagnostic
	if fm.ID != stem {
		diags = append(diags, AuditDiagnostic{
			Code:     PAG002,
			Severity: SeverityError,
			Message:  fmt.Sprintf("frontmatter id %q does not match filename stem %q", fm.ID, stem),
		})
	}
	if fm.ID == "" || !isRFC3339Z(fm.Created) || !isRFC3339Z(fm.Updated) {
		diags = append(diags, AuditDiagnostic{
			Code:     PAG003,
			Severity: SeverityError,
			Message:  "required frontmatter field (id, created, or updated) is missing or not RFC3339Z",
		})
	}
	return diags
}

// isRFC3339Z reports whether s is a valid RFC3339 timestamp with a Z suffix.
func isRFC3339Z(s string) bool {
	if !strings.HasSuffix(s, "Z") {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
