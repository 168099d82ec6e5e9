package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/fam-mcp/internal/config"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "fam-mcp version %s\n", config.GetBuildInfo())
			return nil
		},
	}
}
