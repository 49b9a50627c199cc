package main

import (
	"context"
	"strings"

	parseable "github.com/JupiterMetaLabs/temporal-parseable"
	"github.com/JupiterMetaLabs/temporal-parseable/fields"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/demo"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
)

var (
	greetings = []string{"Alice", "Bob", "Charlie"}
	orders    = []demo.OrderItem{
		{Product: "Widget", Quantity: 5, Price: 9.99},
		{Product: "Gadget", Quantity: 2, Price: 24.50},
		{Product: "Invalid", Quantity: -1, Price: 10.00},
	}
)

func newClientCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "client",
		Short: "Start the demo workflows and wait for their results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runClient()
		},
	}
}

// workflowID returns "<kind>-<name>-<8 hex chars>".
func workflowID(kind, name string) string {
	return kind + "-" + strings.ToLower(name) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (a *app) runClient() error {
	plugin, c, err := a.start()
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signalContext()
	defer stop()

	return plugin.Run(ctx, func(ctx context.Context) error {
		log := plugin.Logger()

		for _, name := range greetings {
			if err := execute(ctx, log, c, workflowID("greeting", name), demo.GreetingWorkflow, name); err != nil {
				return err
			}
		}
		for _, order := range orders {
			if err := execute(ctx, log, c, workflowID("order", order.Product), demo.OrderWorkflow, order); err != nil {
				return err
			}
		}

		log.Info(ctx, "all demo workflows completed")
		return nil
	})
}

func execute(ctx context.Context, log parseable.Logger, c client.Client, id string, wf interface{}, arg interface{}) error {
	log.Info(ctx, "starting workflow", fields.WorkflowID(id))

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        id,
		TaskQueue: demo.TaskQueue,
	}, wf, arg)
	if err != nil {
		log.Error(ctx, "start workflow failed", err, fields.WorkflowID(id))
		return err
	}

	wctx := parseable.WithWorkflow(ctx, run.GetID(), run.GetRunID())
	var result string
	if err := run.Get(ctx, &result); err != nil {
		log.Error(wctx, "workflow failed", err)
		return err
	}
	log.Info(wctx, "workflow completed", parseable.String("result", result))
	return nil
}
