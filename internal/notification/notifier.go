package notification

import (
	"context"

	"github.com/graphwatch/graphwatch/internal/types"
)

// Notifier delivers a check state change to a subscription target.
//
// Send is best-effort: implementations that talk to lossy outbound channels
// (chat webhooks and the like) log delivery failures and return nil so one
// broken channel never stalls the dispatch of the others. A non-nil error is
// reserved for notifiers whose channel demands it; the dispatcher tolerates
// both styles.
type Notifier interface {
	// CanHandle reports whether this notifier serves the given
	// subscription kind. Pure, no side effects.
	CanHandle(subscriptionType types.SubscriptionType) bool

	// Send delivers the most recent state transition in alerts for the
	// given check to the subscription target.
	Send(ctx context.Context, check types.Check, subscription types.Subscription, alerts []types.Alert) error
}
