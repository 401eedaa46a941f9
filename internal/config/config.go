package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	env "github.com/netflix/go-env"

	"github.com/graphwatch/graphwatch/internal/types"
)

// Type alias for Config
type Config = types.Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var config Config

	_, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(config *Config) error {
	if err := validateWebhookURL(config.SlackWebhookURL); err != nil {
		return err
	}

	if strings.TrimSpace(config.SlackUsername) == "" {
		config.SlackUsername = "graphwatch"
	}

	// Trailing slashes would double the path separator in check links.
	config.BaseURL = strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if config.BaseURL == "" {
		return fmt.Errorf("GRAPHWATCH_BASE_URL cannot be empty")
	}

	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 30 * time.Second
	}

	if config.OTelEnabled {
		if strings.TrimSpace(config.OTelExporterOTLPEndpoint) == "" {
			return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is true")
		}
	}

	return nil
}

// validateWebhookURL ensures the webhook target is a usable http(s) URL
func validateWebhookURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid SLACK_WEBHOOK_URL format: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("SLACK_WEBHOOK_URL scheme must be http or https")
	}

	if parsed.Host == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL must include a valid host")
	}

	return nil
}
