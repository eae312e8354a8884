package main

import (
	"github.com/spf13/cobra"

	"findings.ee105.org/internal/appconf"
)

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration after merging defaults, the config file,
FINDINGS_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return appconf.Write(cmd.OutOrStdout(), c.cfg)
		},
	}
}
