package types

import (
	"encoding/json"
	"strings"
	"time"
)

// AlertType represents the severity state of a check or of one side of an
// alert transition.
type AlertType string

const (
	AlertTypeOK      AlertType = "OK"
	AlertTypeWarn    AlertType = "WARN"
	AlertTypeError   AlertType = "ERROR"
	AlertTypeUnknown AlertType = "UNKNOWN"
)

// String returns the canonical textual form of the alert type.
func (t AlertType) String() string {
	return string(t)
}

// ParseAlertType converts free-form input into an AlertType.
// Unrecognized values map to AlertTypeUnknown.
func ParseAlertType(s string) AlertType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OK":
		return AlertTypeOK
	case "WARN":
		return AlertTypeWarn
	case "ERROR":
		return AlertTypeError
	default:
		return AlertTypeUnknown
	}
}

// SubscriptionType identifies the delivery channel kind of a subscription.
type SubscriptionType string

const (
	SubscriptionTypeSlackWebhook SubscriptionType = "slack_webhook"
	SubscriptionTypeEmail        SubscriptionType = "email"
	SubscriptionTypePagerDuty    SubscriptionType = "pagerduty"
	SubscriptionTypeHTTP         SubscriptionType = "http"
)

// Check represents a monitored condition with an aggregate current state.
type Check struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	State AlertType `json:"state"`
}

// Subscription represents a configured delivery target for check
// notifications.
type Subscription struct {
	Target string           `json:"target"`
	Type   SubscriptionType `json:"type"`
}

// Alert represents one observed state transition for a metric target.
// Value is kept as json.Number so the observed value passes through to
// rendered output without reformatting or rounding.
type Alert struct {
	Target   string      `json:"target"`
	Value    json.Number `json:"value"`
	FromType AlertType   `json:"fromType"`
	ToType   AlertType   `json:"toType"`
}

// Config represents the notification service configuration
type Config struct {
	// Slack webhook configuration
	SlackWebhookURL string `json:"slack_webhook_url" env:"SLACK_WEBHOOK_URL,required=true"`
	SlackUsername   string `json:"slack_username" env:"SLACK_USERNAME,default=graphwatch"`

	// Base URL used to build links back to check detail pages
	BaseURL string `json:"base_url" env:"GRAPHWATCH_BASE_URL,default=http://localhost:8080"`

	// Delivery behavior
	Debug       bool          `json:"debug" env:"NOTIFY_DEBUG,default=false"`
	HTTPTimeout time.Duration `json:"http_timeout" env:"NOTIFY_HTTP_TIMEOUT,default=30s"`

	// OpenTelemetry configuration
	OTelEnabled              bool          `json:"otel_enabled" env:"OTEL_ENABLED,default=false"`
	OTelServiceName          string        `json:"otel_service_name" env:"OTEL_SERVICE_NAME,default=graphwatch"`
	OTelExporterOTLPEndpoint string        `json:"otel_exporter_otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelExporterOTLPProtocol string        `json:"otel_exporter_otlp_protocol" env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`
	OTelMetricExportInterval time.Duration `json:"otel_metric_export_interval" env:"OTEL_METRIC_EXPORT_INTERVAL,default=60s"`
}
