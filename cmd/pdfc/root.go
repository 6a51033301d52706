package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var verboseFlag bool

	ctx := &commandContext{verboseFlag: &verboseFlag}

	rootCmd := &cobra.Command{
		Use:           "pdfc",
		Short:         "Compress PDF files with Ghostscript",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newCompressCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newPresetsCommand())

	return rootCmd
}
