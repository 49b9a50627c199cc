package demo

import (
	"time"

	"go.temporal.io/sdk/workflow"
)

// OrderInvalid is the OrderWorkflow result for orders failing validation.
const OrderInvalid = "ORDER_INVALID"

// Register is satisfied by worker.Worker.
type Register interface {
	RegisterWorkflow(w interface{})
	RegisterActivity(a interface{})
}

// RegisterAll registers the demo workflows and activities on r.
func RegisterAll(r Register, a *Activities) {
	r.RegisterWorkflow(GreetingWorkflow)
	r.RegisterWorkflow(OrderWorkflow)
	r.RegisterActivity(a)
}

// GreetingWorkflow runs the Greet activity once.
func GreetingWorkflow(ctx workflow.Context, name string) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("GreetingWorkflow started", "Name", name)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
	})

	var a *Activities
	var result string
	if err := workflow.ExecuteActivity(ctx, a.Greet, name).Get(ctx, &result); err != nil {
		return "", err
	}

	logger.Info("GreetingWorkflow completed", "Result", result)
	return result, nil
}

// OrderWorkflow validates the order, then pays for it.
func OrderWorkflow(ctx workflow.Context, item OrderItem) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderWorkflow started", "Product", item.Product)

	var a *Activities

	validateCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
	})
	var valid bool
	if err := workflow.ExecuteActivity(validateCtx, a.ValidateOrder, item).Get(ctx, &valid); err != nil {
		return "", err
	}
	if !valid {
		logger.Error("Order validation failed", "Product", item.Product)
		return OrderInvalid, nil
	}

	payCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
	})
	var confirmation string
	if err := workflow.ExecuteActivity(payCtx, a.ProcessPayment, item).Get(ctx, &confirmation); err != nil {
		return "", err
	}

	logger.Info("OrderWorkflow completed", "Confirmation", confirmation)
	return confirmation, nil
}
