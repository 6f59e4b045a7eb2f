package main

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/listquery/internal/config"
)

type rootOptions struct {
	env        string
	configPath string
}

// loadConfig reads --config when given, otherwise config/<env>.yaml.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(o.env)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "listquery <command> [flags]",
		Short:         "Search, filter, sort and page back-office datasets",
		Long:          "List query service over campaign, coupon, product and customer datasets with per-customer activity timelines.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
			$ listquery serve
			$ listquery datasets
			$ listquery query campaigns --facet status:Active --sort revenue --desc
			$ ENV=prod listquery serve --config /etc/listquery/prod.yaml
		`),
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Environment (local, dev, docker, prod)")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Override config file")

	cmd.AddCommand(
		serveCmd(opts),
		queryCmd(opts),
		datasetsCmd(opts),
		versionCmd(),
	)
	return cmd
}
