package observability

import (
	"context"
	"fmt"
	"log"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const defaultShutdownTimeout = 5 * time.Second

// ShutdownFunc represents a graceful shutdown handler that waits for exporters to flush.
type ShutdownFunc func(context.Context) error

// NewShutdownFunc wraps meter provider shutdown with a bounded context.
func NewShutdownFunc(mp *sdkmetric.MeterProvider) ShutdownFunc {
	return func(ctx context.Context) error {
		shutdownCtx, cancel := ensureShutdownContext(ctx)
		defer cancel()

		if mp == nil {
			return nil
		}

		if err := mp.Shutdown(shutdownCtx); err != nil {
			log.Printf("observability: failed to shutdown meter provider: %v", err)
			return fmt.Errorf("meter provider: %w", err)
		}

		return nil
	}
}

func ensureShutdownContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultShutdownTimeout)
	}

	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, defaultShutdownTimeout)
}
