package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vitalcheck",
		Short:         "Wellness scoring service",
		Long:          "vitalcheck turns basic health measurements into a wellness score, status and recommendations.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newAssessCommand())
	return root
}
