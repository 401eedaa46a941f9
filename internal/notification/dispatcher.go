package notification

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/graphwatch/graphwatch/internal/types"
)

// Dispatcher routes a check state change to every registered notifier that
// can handle each subscription's channel kind. Deliveries run concurrently;
// one failing channel never blocks the others.
type Dispatcher struct {
	notifiers []Notifier
}

// NewDispatcher creates a dispatcher over the given notifiers.
func NewDispatcher(notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers}
}

// Dispatch fans the state change out to all matching subscription/notifier
// pairs and waits for every delivery attempt to finish. Delivery failures
// are logged per attempt and never propagate to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, check types.Check, subscriptions []types.Subscription, alerts []types.Alert) {
	var g errgroup.Group

	for _, subscription := range subscriptions {
		subscription := subscription
		for _, notifier := range d.notifiers {
			notifier := notifier
			if !notifier.CanHandle(subscription.Type) {
				continue
			}

			deliveryID := uuid.NewString()

			g.Go(func() error {
				if err := notifier.Send(ctx, check, subscription, alerts); err != nil {
					log.Printf("dispatcher: delivery %s to %q (%s) failed: %v",
						deliveryID, subscription.Target, subscription.Type, err)
				}
				return nil
			})
		}
	}

	// Goroutines never return errors; Wait is only a join point.
	_ = g.Wait()
}
