package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/page"
)

// maxPageBytes caps how much of a page file the doctor reads.
const maxPageBytes = 16 << 20

func newDoctorCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "doctor",
		Short:        "Audit every page in the project",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")

			s, err := openSession(cmd, fio, getwd)
			if err != nil {
				return err
			}
			files, err := fio.ListPageFiles(s.dir)
			if err != nil {
				return fmt.Errorf("listing pages: %w", err)
			}

			contents := make(map[string][]byte, len(files))
			for _, name := range files {
				contents[name] = doctorReadFile(s, name)
			}
			diags := page.RunDoctor(page.DoctorData{PageFiles: files, FileContents: contents})
			s.logger.Debug("doctor finished", "pages", len(files), "findings", len(diags))

			if jsonMode {
				if diags == nil {
					diags = []page.AuditDiagnostic{}
				}
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(diags); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
			} else {
				for _, d := range diags {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s: %s\n",
						d.Code, d.Severity, sanitizePath(d.Path), sanitizePath(d.Message))
				}
			}

			if page.HasErrors(diags) {
				return fmt.Errorf("project has integrity errors")
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "output diagnostics as JSON array")

	return cmd
}

// doctorReadFile reads a page file for analysis. Unreadable and oversized
// files yield empty content, which the doctor reports as PAG001.
func doctorReadFile(s *session, name string) []byte {
	content, err := s.fio.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Warn("cannot read page", "page", name, "err", err)
		return []byte{}
	}
	if len(content) > maxPageBytes {
		return []byte{}
	}
	return content
}
