package main

import (
	"context"

	parseable "github.com/JupiterMetaLabs/temporal-parseable"
	"github.com/JupiterMetaLabs/temporal-parseable/fields"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/demo"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the demo worker until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWorker()
		},
	}
}

func (a *app) runWorker() error {
	plugin, c, err := a.start()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signalContext()
	defer stop()

	return plugin.Run(ctx, func(ctx context.Context) error {
		w := worker.New(c, demo.TaskQueue, plugin.WorkerOptions(worker.Options{}))
		demo.RegisterAll(w, demo.NewActivities())

		if err := w.Start(); err != nil {
			return err
		}
		plugin.Logger().Info(ctx, "worker running, press Ctrl+C to stop",
			fields.TaskQueue(demo.TaskQueue),
			fields.Namespace(a.cfg.TemporalNamespace),
			parseable.String("temporal_host", a.cfg.TemporalHost),
		)

		<-ctx.Done()
		plugin.Logger().Info(context.Background(), "worker stopping")
		w.Stop()
		return nil
	})
}
