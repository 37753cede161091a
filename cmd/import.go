package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/markdown"
	"github.com/eykd/pagemark-go/internal/page"
)

func newImportCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:          "import <file.md|->",
		Short:        "Create a page from a Markdown file and print its id",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, fio, getwd)
			if err != nil {
				return err
			}
			src, err := readInput(cmd, fio, args[0])
			if err != nil {
				return err
			}
			name := title
			if name == "" && args[0] != "-" {
				name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			p, err := page.FromDocument(name, markdown.Import(src))
			if err != nil {
				return fmt.Errorf("--title: %w", err)
			}
			if err := s.savePage(p); err != nil {
				return err
			}
			s.logger.Info("page imported", "id", p.ID, "blocks", len(p.Body.Children))
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "page title (default: the file's base name)")

	return cmd
}
