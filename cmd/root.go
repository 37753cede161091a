// Package cmd implements the pgm CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root pgm command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newDefaultProjectIO(), os.Getwd)
}

func newRootCmd(fio ProjectIO, getwd func() (string, error)) *cobra.Command {
	root := &cobra.Command{
		Use:           "pgm",
		Short:         "pgm - pagemark CLI for structured rich-text pages",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().String("project", "", "project directory (default: current directory)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (overrides "+configName+")")

	root.AddCommand(newInitCmd(fio, getwd))
	root.AddCommand(newNewCmd(fio, getwd))
	root.AddCommand(newSanitizeCmd(fio))
	root.AddCommand(newApplyCmd(fio, getwd))
	root.AddCommand(newExportCmd(fio, getwd))
	root.AddCommand(newImportCmd(fio, getwd))
	root.AddCommand(newDoctorCmd(fio, getwd))
	root.AddCommand(newActionsCmd())
	return root
}
