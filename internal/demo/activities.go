// Package demo holds the sample workflows and activities the demo worker
// runs to produce telemetry in every Parseable stream.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.temporal.io/sdk/activity"
)

// TaskQueue is the task queue shared by the demo worker and client.
const TaskQueue = "parseable-demo"

// OrderItem is a single-product order.
type OrderItem struct {
	Product  string
	Quantity int
	Price    float64
}

// Total is the order amount.
func (o OrderItem) Total() float64 { return o.Price * float64(o.Quantity) }

// Activities are registered as a struct so the payment delay can be tuned.
type Activities struct {
	// PaymentDelay simulates the payment provider's latency.
	PaymentDelay time.Duration
}

// NewActivities returns the activities with a 500ms payment delay.
func NewActivities() *Activities {
	return &Activities{PaymentDelay: 500 * time.Millisecond}
}

// Greet returns "Hello, <name>!".
func (a *Activities) Greet(ctx context.Context, name string) (string, error) {
	activity.GetLogger(ctx).Info("Generating greeting", "Name", name)
	return fmt.Sprintf("Hello, %s!", name), nil
}

// ValidateOrder accepts orders with a positive quantity and price.
func (a *Activities) ValidateOrder(ctx context.Context, item OrderItem) (bool, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Validating order",
		"Product", item.Product,
		"Quantity", item.Quantity,
		"Price", item.Price,
	)
	if item.Quantity <= 0 || item.Price <= 0 {
		logger.Warn("Invalid order parameters", "Product", item.Product)
		return false, nil
	}
	return true, nil
}

// ProcessPayment charges the order and returns a confirmation code derived
// from the product name.
func (a *Activities) ProcessPayment(ctx context.Context, item OrderItem) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Processing payment", "Amount", item.Total(), "Product", item.Product)

	if err := a.waitPayment(ctx); err != nil {
		return "", err
	}

	confirmation := Confirmation(item.Product)
	logger.Info("Payment confirmed", "Confirmation", confirmation)
	return confirmation, nil
}

func (a *Activities) waitPayment(ctx context.Context) error {
	if a.PaymentDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(a.PaymentDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Confirmation returns "PAY-" and five digits, stable for a given product.
func Confirmation(product string) string {
	return fmt.Sprintf("PAY-%05d", xxhash.Sum64String(product)%100000)
}
