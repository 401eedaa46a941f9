package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/graphwatch/graphwatch/internal/metrics"
	"github.com/graphwatch/graphwatch/internal/types"
)

const slackIconEmoji = ":seyren:"

// Attachment colors by check state.
const (
	colorError   = "#d93240"
	colorWarn    = "#FFD801"
	colorOK      = "#5bb12f"
	colorUnknown = "#CACACA"
)

// SlackNotifier posts check state changes to a Slack incoming webhook.
// Each Send builds its own payload and HTTP client, so concurrent Sends
// need no coordination.
type SlackNotifier struct {
	webhookURL string
	username   string
	baseURL    string
	debug      bool
	timeout    time.Duration
}

// NewSlackNotifier creates a notifier bound to the configured webhook.
func NewSlackNotifier(cfg *types.Config) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: cfg.SlackWebhookURL,
		username:   cfg.SlackUsername,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		debug:      cfg.Debug,
		timeout:    cfg.HTTPTimeout,
	}
}

// CanHandle reports whether the subscription kind is the Slack webhook kind.
func (n *SlackNotifier) CanHandle(subscriptionType types.SubscriptionType) bool {
	return subscriptionType == types.SubscriptionTypeSlackWebhook
}

// Send posts the latest transition in alerts to the subscription's channel.
// Delivery failures (serialization, transport, non-2xx response) are logged
// at warning level and swallowed; Send always returns nil.
func (n *SlackNotifier) Send(ctx context.Context, check types.Check, subscription types.Subscription, alerts []types.Alert) error {
	if len(alerts) == 0 {
		log.Printf("slack notifier: warning: no alerts for check %s, nothing to send", check.ID)
		return nil
	}

	message := n.buildMessage(check, subscription, alerts)

	if err := n.post(ctx, message); err != nil {
		log.Printf("slack notifier: warning: error posting to Slack for check %s: %v", check.ID, err)
		metrics.RecordFailed(ctx, string(subscription.Type))
		return nil
	}

	metrics.RecordSent(ctx, string(subscription.Type))
	return nil
}

// buildMessage renders the webhook payload for the most recent transition.
func (n *SlackNotifier) buildMessage(check types.Check, subscription types.Subscription, alerts []types.Alert) *slack.WebhookMessage {
	alert := alerts[len(alerts)-1]

	attachment := slack.Attachment{
		Color:     alertColor(check.State),
		Fallback:  check.Name,
		Title:     check.Name,
		TitleLink: fmt.Sprintf("%s/#/checks/%s", n.baseURL, check.ID),
		Fields: []slack.AttachmentField{
			{Title: "New State Value", Value: alert.ToType.String(), Short: true},
			{Title: "Old State Value", Value: alert.FromType.String(), Short: true},
			{Title: "Description", Value: fmt.Sprintf("%s = %s", alert.Target, alert.Value)},
		},
	}

	return &slack.WebhookMessage{
		Channel:     subscription.Target,
		Username:    n.username,
		IconEmoji:   slackIconEmoji,
		Attachments: []slack.Attachment{attachment},
	}
}

// post serializes the message and performs a single webhook request.
// The response body is always drained and closed.
func (n *SlackNotifier) post(ctx context.Context, message *slack.WebhookMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	if n.debug {
		log.Printf("slack notifier: payload: %s", body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: n.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if n.debug {
		log.Printf("slack notifier: status: %s, body: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	return nil
}

// alertColor maps a check state to its attachment color. Total over
// AlertType: anything outside the three known severities falls back to gray.
func alertColor(state types.AlertType) string {
	switch state {
	case types.AlertTypeError:
		return colorError
	case types.AlertTypeOK:
		return colorOK
	case types.AlertTypeWarn:
		return colorWarn
	default:
		return colorUnknown
	}
}
