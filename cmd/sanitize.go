package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/doc"
)

func newSanitizeCmd(fio ProjectIO) *cobra.Command {
	var indent bool

	cmd := &cobra.Command{
		Use:          "sanitize <file|->",
		Short:        "Repair document JSON into a valid document and print it",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, fio, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(doc.Sanitize(raw)); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&indent, "indent", false, "indent the output")

	return cmd
}
