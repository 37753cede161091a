package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/page"
)

func newNewCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:          "new",
		Short:        "Create an empty page and print its id",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, fio, getwd)
			if err != nil {
				return err
			}
			p, err := page.New(title)
			if err != nil {
				return fmt.Errorf("--title: %w", err)
			}
			if err := s.savePage(p); err != nil {
				return err
			}
			s.logger.Info("page created", "id", p.ID)
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "page title")

	return cmd
}
