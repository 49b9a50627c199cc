package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	parseable "github.com/JupiterMetaLabs/temporal-parseable"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
)

type app struct {
	cfgFile string
	cfg     parseable.Config
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "parseable-demo",
		Short: "Run demo Temporal workflows with telemetry in Parseable",
		Long: `parseable-demo starts a Temporal worker or client wired to Parseable.
Traces, logs and metrics are exported to one Parseable stream each.

Settings come from the optional config file and PARSEABLE_* environment
variables, for example PARSEABLE_URL or PARSEABLE_TEMPORAL_HOST.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseable.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (YAML); environment variables override it")

	root.AddCommand(newWorkerCmd(a), newClientCmd(a))
	return root
}

// start builds the plugin and dials Temporal with its client options.
func (a *app) start() (*parseable.Plugin, client.Client, error) {
	plugin, warnings, err := parseable.New(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		plugin.Logger().Warn(context.Background(), "telemetry degraded", parseable.Err(w))
	}

	c, err := client.Dial(plugin.ClientOptions(client.Options{}))
	if err != nil {
		_ = plugin.Shutdown(context.Background())
		return nil, nil, fmt.Errorf("connect to temporal at %s: %w", a.cfg.TemporalHost, err)
	}
	return plugin, c, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
