package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/editor"
)

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "actions [query]",
		Short:        "List block-menu actions, best fuzzy match first",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			found := editor.FindActions(strings.Join(args, " "))
			if len(found) == 0 {
				return fmt.Errorf("no action matches %q", sanitizePath(strings.Join(args, " ")))
			}
			for _, a := range found {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.Name, a.Title)
			}
			return nil
		},
	}
}
