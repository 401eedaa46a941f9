package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	initOnce sync.Once
	initErr  error

	sentCounter   metric.Int64Counter
	failedCounter metric.Int64Counter
)

// Init creates the delivery counters on the global meter provider.
// It should be called after the meter provider has been installed.
// Safe to call multiple times; subsequent calls are no-ops.
func Init() error {
	initOnce.Do(func() {
		meter := otel.Meter("graphwatch/notification")

		sentCounter, initErr = meter.Int64Counter(
			"graphwatch.notifications.sent",
			metric.WithDescription("Notifications delivered to an outbound channel"),
			metric.WithUnit("{deliveries}"),
		)
		if initErr != nil {
			log.Printf("metrics: failed to create sent counter: %v", initErr)
			return
		}

		failedCounter, initErr = meter.Int64Counter(
			"graphwatch.notifications.failed",
			metric.WithDescription("Notification deliveries that failed"),
			metric.WithUnit("{deliveries}"),
		)
		if initErr != nil {
			log.Printf("metrics: failed to create failed counter: %v", initErr)
		}
	})
	return initErr
}

// RecordSent increments the delivered count for the given channel kind.
// Recording failures are logged, never returned.
func RecordSent(ctx context.Context, channel string) {
	if err := Init(); err != nil {
		log.Printf("metrics: cannot record sent delivery: %v", err)
		return
	}
	sentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}

// RecordFailed increments the failed count for the given channel kind.
func RecordFailed(ctx context.Context, channel string) {
	if err := Init(); err != nil {
		log.Printf("metrics: cannot record failed delivery: %v", err)
		return
	}
	failedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
}

// ResetForTesting resets the initialization state for testing purposes.
// This should only be used in tests.
func ResetForTesting() {
	initOnce = sync.Once{}
	initErr = nil
	sentCounter = nil
	failedCounter = nil
}
