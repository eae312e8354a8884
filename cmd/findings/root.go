package main

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"findings.ee105.org/internal/appconf"
	"findings.ee105.org/internal/logging"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	loader     *appconf.Loader
	configPath string
	noColor    bool

	cfg    *appconf.Config
	logger *slog.Logger
}

// bind registers flag name of cmd as an override for config key.
func (c *cli) bind(cmd *cobra.Command, key, name string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	cobra.CheckErr(c.loader.BindFlag(key, flag))
}

func newRootCmd() *cobra.Command {
	c := &cli{loader: appconf.NewLoader()}

	root := &cobra.Command{
		Use:   "findings",
		Short: "Serve the CO₂ and green bond findings dashboards",
		Long: `findings serves two presentation dashboards: the global rise of CO₂ emissions
with China highlighted (OWID data or an uploaded CSV), and the World Bank green
bond findings for sections 8, 9 and 10.

Configuration is read from an optional YAML file, FINDINGS_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.noColor {
				color.NoColor = true
			}
			cfg, err := c.loader.Load(c.configPath)
			if err != nil {
				return exitError(ExitError, "findings: %v", err)
			}
			c.cfg = cfg
			c.logger = logging.NewTextLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")
	flags.String("env", "development", "environment (development|test|production)")
	flags.String("log-level", "info", "log level (debug|info|warn|error)")
	flags.String("dataset-url", appconf.DefaultDatasetURL, "URL or path of the default CO₂ CSV")
	flags.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	c.bind(root, "env", "env")
	c.bind(root, "log_level", "log-level")
	c.bind(root, "dataset.url", "dataset-url")

	root.AddCommand(
		newServeCmd(c),
		newRankCmd(c),
		newValidateCmd(c),
		newConfigCmd(c),
		newVersionCmd(),
	)
	return root
}
