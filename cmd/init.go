package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eykd/pagemark-go/internal/config"
)

func newInitCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Initialize a pagemark project in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, _ := cmd.Flags().GetString("project")
			if project == "" {
				cwd, err := getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				project = cwd
			}

			configPath := filepath.Join(project, config.Filename)
			exists, err := fio.StatFile(configPath)
			if err != nil {
				return fmt.Errorf("checking %s: %w", configPath, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.Filename, project)
			}

			if err := fio.WriteFileAtomic(configPath, []byte(config.Template)); err != nil {
				return fmt.Errorf("writing %s: %w", config.Filename, err)
			}
			if exists {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: overwriting existing files")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+project)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}
