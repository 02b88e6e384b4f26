package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autobmg/processdocs/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#document-ops",
		Username:   "bot",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.DeliveryPayload{
		BatchID: "batch-123",
		Links: []notify.DeliveredLink{
			{ProcessCode: "CIV1001", URL: "https://bucket.s3.amazonaws.com/signed"},
		},
		EmptyCodes:  []string{"CIV1002"},
		FailedCodes: []string{"CIV1003"},
		CompletedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#document-ops" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !containsAll(
		text,
		[]string{"finished with failures", "batch-123", "CIV1001", "CIV1002", "CIV1003", "2026-03-14T09:26:53Z"},
	) {
		t.Fatalf("message text missing fields: %s", text)
	}
	if strings.Contains(text, "https://bucket.s3.amazonaws.com") {
		t.Fatalf("download URL must never be posted to the ops channel: %s", text)
	}
}

func TestFormatMessageCleanBatch(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.DeliveryPayload{
		BatchID: "batch-1",
		Links:   []notify.DeliveredLink{{ProcessCode: "CIV1001"}},
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if strings.Contains(text, "with failures") {
		t.Fatalf("clean batch must not be reported as failed: %s", text)
	}
	if _, present := msg["channel"]; present {
		t.Fatalf("channel must be omitted when not configured")
	}
}

func TestFormatMessageEscapesCodes(t *testing.T) {
	client, err := NewClient(Config{WebhookURL: "https://hooks.slack.com/services/test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.DeliveryPayload{
		FailedCodes: []string{"a & <b>"},
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !strings.Contains(text, "a &amp; &lt;b&gt;") {
		t.Fatalf("expected escaped code, got: %s", text)
	}
}

func TestSendDeliveryPostsWebhook(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendDelivery(context.Background(), notify.DeliveryPayload{BatchID: "batch-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["username"] != "processdocs" {
		t.Fatalf("expected default username, got %v", got["username"])
	}
}

func TestSendDeliveryRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "rate_limited", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendDelivery(context.Background(), notify.DeliveryPayload{BatchID: "batch-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 webhook calls, got %d", got)
	}
}

func TestSendDeliveryExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no_service", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.SendDelivery(context.Background(), notify.DeliveryPayload{BatchID: "batch-1"})
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if !strings.Contains(err.Error(), "no_service") {
		t.Fatalf("expected webhook error body in message, got: %v", err)
	}
}

func containsAll(text string, substrs []string) bool {
	for _, s := range substrs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
