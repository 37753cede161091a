package page_test

import (
	"testing"

	"github.com/eykd/pagemark-go/internal/page"
)

const testID2 = "01932b4a-deaf-7b00-a000-000000000001"

func codesOf(diags []page.AuditDiagnostic) []page.AuditCode {
	out := make([]page.AuditCode, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestRunDoctor(t *testing.T) {
	name := testID + ".page"
	tests := []struct {
		name    string
		content []byte
		want    []page.AuditCode
	}{
		{name: "healthy page", content: pageBytes(testID, validBody), want: nil},
		{name: "no frontmatter", content: []byte(validBody), want: []page.AuditCode{page.PAG001}},
		{name: "bad yaml", content: []byte("---\nid: [unclosed\n---\n"), want: []page.AuditCode{page.PAG001}},
		{name: "id mismatch", content: pageBytes(testID2, validBody), want: []page.AuditCode{page.PAG002}},
		{name: "missing updated",
			content: []byte("---\nid: " + testID + "\ncreated: " + testTS + "\n---\n" + validBody),
			want:    []page.AuditCode{page.PAG003}},
		{name: "timestamp without Z",
			content: []byte("---\nid: " + testID + "\ncreated: 2026-02-28T15:04:05+01:00\nupdated: " + testTS + "\n---\n" + validBody),
			want:    []page.AuditCode{page.PAG003}},
		{name: "damaged body", content: pageBytes(testID, `[{"type":"paragraph","children":["x"]}]`),
			want: []page.AuditCode{page.PAGW001}},
		{name: "empty page", content: pageBytes(testID, `[{"type":"paragraph","children":[{"text":""}]}]`),
			want: []page.AuditCode{page.PAGW002}},
		{name: "missing body", content: pageBytes(testID, ""), want: []page.AuditCode{page.PAGW001, page.PAGW002}},
		{name: "errors sort first", content: pageBytes(testID2, ""),
			want: []page.AuditCode{page.PAG002, page.PAGW001, page.PAGW002}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := page.RunDoctor(page.DoctorData{
				PageFiles:    []string{name},
				FileContents: map[string][]byte{name: tt.content},
			})
			got := codesOf(diags)
			if len(got) != len(tt.want) {
				t.Fatalf("RunDoctor() codes = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RunDoctor() codes = %v, want %v", got, tt.want)
					break
				}
			}
			for _, d := range diags {
				if d.Path != name {
					t.Errorf("diagnostic %s path = %q, want %q", d.Code, d.Path, name)
				}
			}
		})
	}
}

func TestRunDoctor_SortsByPathWithinSeverity(t *testing.T) {
	a, b := testID+".page", testID2+".page"
	diags := page.RunDoctor(page.DoctorData{
		PageFiles: []string{b, a},
		FileContents: map[string][]byte{
			a: pageBytes(testID, ""),
			b: []byte("garbage"),
		},
	})
	if len(diags) != 3 {
		t.Fatalf("RunDoctor() = %v, want 3 diagnostics", diags)
	}
	if diags[0].Code != page.PAG001 || diags[0].Path != b {
		t.Errorf("first diagnostic = %+v, want the PAG001 error on %s", diags[0], b)
	}
	if diags[1].Path != a || diags[2].Path != a {
		t.Errorf("warnings = %+v, want both on %s", diags[1:], a)
	}
	if !page.HasErrors(diags) {
		t.Error("HasErrors() = false, want true")
	}
}
