package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/markdown"
)

func newExportCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:          "export <id>",
		Short:        "Print a page as Markdown or JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, fio, getwd)
			if err != nil {
				return err
			}
			p, err := s.loadPage(args[0])
			if err != nil {
				return err
			}
			switch format {
			case "markdown", "md":
				_, err = io.WriteString(cmd.OutOrStdout(), markdown.Export(p.Body))
			case "json":
				err = json.NewEncoder(cmd.OutOrStdout()).Encode(p.Body)
			default:
				return fmt.Errorf("unknown format %q (want markdown or json)", sanitizePath(format))
			}
			if err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or json")

	return cmd
}
