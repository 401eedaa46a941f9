package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/graphwatch/graphwatch/internal/config"
	"github.com/graphwatch/graphwatch/internal/metrics"
	"github.com/graphwatch/graphwatch/internal/notification"
	"github.com/graphwatch/graphwatch/internal/observability"
	"github.com/graphwatch/graphwatch/internal/types"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Send a one-off check state change notification",
	Long: `Send a single alert state change notification to a Slack channel.
Useful for smoke-testing a webhook configuration. Delivery is best-effort:
the command exits successfully even when the webhook rejects the message
(the failure is logged).`,
	RunE: runNotify,
}

var (
	notifyChannel   string
	notifyCheckID   string
	notifyCheckName string
	notifyState     string
	notifyTarget    string
	notifyValue     string
	notifyFrom      string
	notifyTo        string
)

func init() {
	notifyCmd.Flags().StringVar(&notifyChannel, "channel", "", "Slack channel to notify (e.g. #ops)")
	notifyCmd.Flags().StringVar(&notifyCheckID, "check-id", "", "identifier of the check")
	notifyCmd.Flags().StringVar(&notifyCheckName, "check-name", "", "display name of the check")
	notifyCmd.Flags().StringVar(&notifyState, "state", "ERROR", "current aggregate state of the check (OK, WARN, ERROR, UNKNOWN)")
	notifyCmd.Flags().StringVar(&notifyTarget, "target", "", "metric target that triggered the transition")
	notifyCmd.Flags().StringVar(&notifyValue, "value", "", "observed metric value")
	notifyCmd.Flags().StringVar(&notifyFrom, "from", "OK", "state the alert transitioned from")
	notifyCmd.Flags().StringVar(&notifyTo, "to", "ERROR", "state the alert transitioned to")

	for _, flag := range []string{"channel", "check-id", "check-name", "target", "value"} {
		if err := notifyCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

func runNotify(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := cmd.Context()

	otelCfg, err := observability.LoadConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to load observability configuration: %w", err)
	}

	meterProvider, err := observability.InitMeter(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics exporter: %w", err)
	}
	shutdown := observability.NewShutdownFunc(meterProvider)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Warning: observability shutdown: %v", err)
		}
	}()

	if err := metrics.Init(); err != nil {
		log.Printf("Warning: metrics initialization failed: %v", err)
	}

	check := types.Check{
		ID:    notifyCheckID,
		Name:  notifyCheckName,
		State: types.ParseAlertType(notifyState),
	}
	subscription := types.Subscription{
		Target: notifyChannel,
		Type:   types.SubscriptionTypeSlackWebhook,
	}
	alerts := []types.Alert{
		{
			Target:   notifyTarget,
			Value:    json.Number(notifyValue),
			FromType: types.ParseAlertType(notifyFrom),
			ToType:   types.ParseAlertType(notifyTo),
		},
	}

	dispatcher := notification.NewDispatcher(notification.NewSlackNotifier(cfg))
	dispatcher.Dispatch(ctx, check, []types.Subscription{subscription}, alerts)

	fmt.Printf("Notification dispatched for check %s (%s)\n", check.Name, check.ID)
	return nil
}
