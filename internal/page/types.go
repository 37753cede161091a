// Package page stores pagemark documents on disk. A page file is named
// {uuid}.page and holds a YAML frontmatter block followed by the document's
// JSON body.
package page

// Frontmatter holds the YAML front matter of a page file.
type Frontmatter struct {
	// ID is the page's unique identifier (UUID v7).
	ID string `yaml:"id"`
	// Title is the optional human-readable title.
	Title string `yaml:"title,omitempty"`
	// Created is the RFC3339 timestamp when the page was first created.
	Created string `yaml:"created"`
	// Updated is the RFC3339 timestamp when the page was last saved.
	Updated string `yaml:"updated"`
}

// AuditCode identifies a specific doctor rule.
type AuditCode string

const (
	// PAG001 indicates the frontmatter block is missing or unparseable.
	PAG001 AuditCode = "PAG001"
	// PAG002 indicates the frontmatter id does not match the filename stem.
	PAG002 AuditCode = "PAG002"
	// PAG003 indicates id, created, or updated is absent or malformed.
	PAG003 AuditCode = "PAG003"
	// PAGW001 is a warning that the body needed repair to load.
	PAGW001 AuditCode = "PAGW001"
	// PAGW002 is a warning that the page holds only the empty default document.
	PAGW002 AuditCode = "PAGW002"
)

// AuditSeverity classifies the impact level of an audit diagnostic.
type AuditSeverity string

const (
	SeverityError   AuditSeverity = "error"
	SeverityWarning AuditSeverity = "warning"
)

// AuditDiagnostic is a single finding produced by the doctor.
type AuditDiagnostic struct {
	Code     AuditCode     `json:"code"`
	Severity AuditSeverity `json:"severity"`
	Message  string        `json:"message"`
	// Path is the page filename the finding refers to.
	Path string `json:"path"`
}
