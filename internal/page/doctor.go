package page

import (
	"fmt"
	"sort"
	"strings"
)

// DoctorData holds pre-loaded file data for a doctor audit pass.
type DoctorData struct {
	// PageFiles lists the page filenames found in the project directory.
	PageFiles []string
	// FileContents maps each filename to its raw bytes.
	FileContents map[string][]byte
}

// RunDoctor audits every page in data and returns diagnostics sorted by
// severity (errors first) then path. It performs no IO.
func RunDoctor(data DoctorData) []AuditDiagnostic {
	var diags []AuditDiagnostic

	for _, name := range data.PageFiles {
		content := data.FileContents[name]

		fm, body, err := ParseFrontmatter(content)
		if err != nil {
			diags = append(diags, errDiag(PAG001, name, fmt.Sprintf("frontmatter is missing or invalid: %v", err)))
			continue
		}

		for _, d := range validateFrontmatter(strings.TrimSuffix(name, Ext), fm) {
			d.Path = name
			diags = append(diags, d)
		}

		d, repaired := loadBody(body)
		if repaired {
			diags = append(diags, warnDiag(PAGW001, name, "page body is not a valid document and was repaired on load"))
		}
		if d.IsEmpty() {
			diags = append(diags, warnDiag(PAGW002, name, "page holds no content"))
		}
	}

	sort.SliceStable(diags, func(i, j int) bool {
		si := severityRank(diags[i].Severity)
		sj := severityRank(diags[j].Severity)
		if si != sj {
			return si < sj
		}
		return diags[i].Path < diags[j].Path
	})

	return diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []AuditDiagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func severityRank(s AuditSeverity) int {
	if s == SeverityError {
		return 0
	}
	return 1
}

func errDiag(code AuditCode, path, message string) AuditDiagnostic {
	return AuditDiagnostic{Code: code, Severity: SeverityError, Message: message, Path: path}
}

func warnDiag(code AuditCode, path, message string) AuditDiagnostic {
	return AuditDiagnostic{Code: code, Severity: SeverityWarning, Message: message, Path: path}
}
