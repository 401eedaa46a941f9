package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphwatch/graphwatch/internal/types"
)

type capturedField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type capturedAttachment struct {
	Color     string          `json:"color"`
	Fallback  string          `json:"fallback"`
	Title     string          `json:"title"`
	TitleLink string          `json:"title_link"`
	Fields    []capturedField `json:"fields"`
}

type capturedPayload struct {
	Channel     string               `json:"channel"`
	Username    string               `json:"username"`
	IconEmoji   string               `json:"icon_emoji"`
	Attachments []capturedAttachment `json:"attachments"`
}

func testConfig(webhookURL string) *types.Config {
	return &types.Config{
		SlackWebhookURL: webhookURL,
		SlackUsername:   "graphwatch",
		BaseURL:         "http://monitor.example.com",
		HTTPTimeout:     5 * time.Second,
	}
}

func TestAlertColor(t *testing.T) {
	tests := []struct {
		state types.AlertType
		want  string
	}{
		{types.AlertTypeError, "#d93240"},
		{types.AlertTypeOK, "#5bb12f"},
		{types.AlertTypeWarn, "#FFD801"},
		{types.AlertTypeUnknown, "#CACACA"},
		{types.AlertType("EXCEPTION"), "#CACACA"},
		{types.AlertType(""), "#CACACA"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("state %q", tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, alertColor(tt.state))
		})
	}
}

func TestSlackNotifierCanHandle(t *testing.T) {
	notifier := NewSlackNotifier(testConfig("https://hooks.slack.com/services/T/B/X"))

	assert.True(t, notifier.CanHandle(types.SubscriptionTypeSlackWebhook))
	assert.False(t, notifier.CanHandle(types.SubscriptionTypeEmail))
	assert.False(t, notifier.CanHandle(types.SubscriptionTypePagerDuty))
	assert.False(t, notifier.CanHandle(types.SubscriptionTypeHTTP))
	assert.False(t, notifier.CanHandle(types.SubscriptionType("carrier_pigeon")))
}

func TestSlackNotifierSendPayload(t *testing.T) {
	var (
		gotHeaders http.Header
		gotBody    []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody = readAll(t, r)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(testConfig(server.URL))

	check := types.Check{ID: "42", Name: "CPU High", State: types.AlertTypeError}
	subscription := types.Subscription{Target: "#ops", Type: types.SubscriptionTypeSlackWebhook}
	alerts := []types.Alert{
		{Target: "host1.cpu", Value: json.Number("97.5"), FromType: types.AlertTypeWarn, ToType: types.AlertTypeError},
	}

	err := notifier.Send(context.Background(), check, subscription, alerts)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))

	var payload capturedPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))

	assert.Equal(t, "#ops", payload.Channel)
	assert.Equal(t, "graphwatch", payload.Username)
	assert.Equal(t, ":seyren:", payload.IconEmoji)

	require.Len(t, payload.Attachments, 1)
	attachment := payload.Attachments[0]
	assert.Equal(t, "#d93240", attachment.Color)
	assert.Equal(t, "CPU High", attachment.Fallback)
	assert.Equal(t, "CPU High", attachment.Title)
	assert.Equal(t, "http://monitor.example.com/#/checks/42", attachment.TitleLink)

	require.Len(t, attachment.Fields, 3)
	assert.Equal(t, capturedField{Title: "New State Value", Value: "ERROR", Short: true}, attachment.Fields[0])
	assert.Equal(t, capturedField{Title: "Old State Value", Value: "WARN", Short: true}, attachment.Fields[1])
	assert.Equal(t, "Description", attachment.Fields[2].Title)
	assert.Equal(t, "host1.cpu = 97.5", attachment.Fields[2].Value)
}

func TestSlackNotifierSendRendersLastTransitionOnly(t *testing.T) {
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = readAll(t, r)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(testConfig(server.URL))

	check := types.Check{ID: "7", Name: "Latency", State: types.AlertTypeOK}
	subscription := types.Subscription{Target: "#ops", Type: types.SubscriptionTypeSlackWebhook}
	alerts := []types.Alert{
		{Target: "api.p99.first", Value: json.Number("900"), FromType: types.AlertTypeOK, ToType: types.AlertTypeWarn},
		{Target: "api.p99.second", Value: json.Number("1500"), FromType: types.AlertTypeWarn, ToType: types.AlertTypeError},
		{Target: "api.p99", Value: json.Number("120"), FromType: types.AlertTypeError, ToType: types.AlertTypeOK},
	}

	require.NoError(t, notifier.Send(context.Background(), check, subscription, alerts))

	var payload capturedPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Len(t, payload.Attachments, 1)

	fields := payload.Attachments[0].Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "OK", fields[0].Value)
	assert.Equal(t, "ERROR", fields[1].Value)
	assert.Equal(t, "api.p99 = 120", fields[2].Value)

	// Earlier transitions must not leak into the payload anywhere.
	assert.NotContains(t, string(gotBody), "api.p99.first")
	assert.NotContains(t, string(gotBody), "api.p99.second")
}

func TestSlackNotifierTitleLinkSingleSeparator(t *testing.T) {
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = readAll(t, r)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.BaseURL = "http://monitor.example.com/"
	notifier := NewSlackNotifier(cfg)

	check := types.Check{ID: "42", Name: "CPU High", State: types.AlertTypeWarn}
	subscription := types.Subscription{Target: "#ops", Type: types.SubscriptionTypeSlackWebhook}
	alerts := []types.Alert{
		{Target: "host1.cpu", Value: json.Number("80"), FromType: types.AlertTypeOK, ToType: types.AlertTypeWarn},
	}

	require.NoError(t, notifier.Send(context.Background(), check, subscription, alerts))

	var payload capturedPayload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Len(t, payload.Attachments, 1)
	assert.Equal(t, "http://monitor.example.com/#/checks/42", payload.Attachments[0].TitleLink)
}

func TestSlackNotifierSendSwallowsFailures(t *testing.T) {
	check := types.Check{ID: "1", Name: "Disk", State: types.AlertTypeError}
	subscription := types.Subscription{Target: "#ops", Type: types.SubscriptionTypeSlackWebhook}
	alerts := []types.Alert{
		{Target: "host1.disk", Value: json.Number("99"), FromType: types.AlertTypeWarn, ToType: types.AlertTypeError},
	}

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		notifier := NewSlackNotifier(testConfig(url))
		err := notifier.Send(context.Background(), check, subscription, alerts)
		assert.NoError(t, err)
	})

	t.Run("non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "channel_not_found", http.StatusNotFound)
		}))
		defer server.Close()

		notifier := NewSlackNotifier(testConfig(server.URL))
		err := notifier.Send(context.Background(), check, subscription, alerts)
		assert.NoError(t, err)
	})

	t.Run("empty alerts", func(t *testing.T) {
		notifier := NewSlackNotifier(testConfig("http://127.0.0.1:1"))
		err := notifier.Send(context.Background(), check, subscription, nil)
		assert.NoError(t, err)
	})
}

func readAll(t *testing.T, r *http.Request) []byte {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return body
}
