package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	var logFormat string

	cmd := &cobra.Command{
		Use:           "yaffsrestore",
		Short:         "Reconstruct a YAFFS-family filesystem image from a NAND dump",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "console|json|auto")

	cmd.AddCommand(newExtractCmd(&logLevel, &logFormat))
	return cmd
}
