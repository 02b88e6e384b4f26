package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func parseConfig(t *testing.T) AppConfig {
	t.Helper()

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()
	return cfg
}

func TestParseDefaults(t *testing.T) {
	cfg := parseConfig(t)

	if cfg.AWS.DocsPrefix != "documents/downloads" {
		t.Fatalf("DocsPrefix = %q", cfg.AWS.DocsPrefix)
	}
	if cfg.AWS.ZipsPrefix != "documents/downloads/zips" {
		t.Fatalf("ZipsPrefix = %q", cfg.AWS.ZipsPrefix)
	}
	if cfg.AWS.LinkTTL != time.Hour {
		t.Fatalf("LinkTTL = %v", cfg.AWS.LinkTTL)
	}
	if cfg.AWS.ArchiveRetention != 24*time.Hour {
		t.Fatalf("ArchiveRetention = %v", cfg.AWS.ArchiveRetention)
	}
	if cfg.Pipeline.DispatchConcurrency != 5 {
		t.Fatalf("DispatchConcurrency = %d", cfg.Pipeline.DispatchConcurrency)
	}
	if cfg.Pipeline.MaxBatchSize != 5 {
		t.Fatalf("MaxBatchSize = %d", cfg.Pipeline.MaxBatchSize)
	}
	if cfg.Pipeline.DownloadConcurrency != 10 {
		t.Fatalf("DownloadConcurrency = %d", cfg.Pipeline.DownloadConcurrency)
	}
	if cfg.Pipeline.PartialDownloadPolicy != PolicyBestEffort {
		t.Fatalf("PartialDownloadPolicy = %q", cfg.Pipeline.PartialDownloadPolicy)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.SMTP.Enabled {
		t.Fatal("SMTP should default to disabled")
	}
}

func TestParsePolicyFromEnv(t *testing.T) {
	t.Setenv("PARTIAL_DOWNLOAD_POLICY", "FAIL-FAST")

	cfg := parseConfig(t)
	if cfg.Pipeline.PartialDownloadPolicy != PolicyFailFast {
		t.Fatalf("PartialDownloadPolicy = %q", cfg.Pipeline.PartialDownloadPolicy)
	}
}

func TestParsePolicyRejectsUnknown(t *testing.T) {
	t.Setenv("PARTIAL_DOWNLOAD_POLICY", "sometimes")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected an error for an unknown download policy")
	}
}

func TestSanitizeClampsPools(t *testing.T) {
	t.Setenv("DISPATCH_CONCURRENCY", "0")
	t.Setenv("DOWNLOAD_CONCURRENCY", "-3")
	t.Setenv("MAX_BATCH_SIZE", "0")

	cfg := parseConfig(t)
	if cfg.Pipeline.DispatchConcurrency != 1 {
		t.Fatalf("DispatchConcurrency = %d", cfg.Pipeline.DispatchConcurrency)
	}
	if cfg.Pipeline.DownloadConcurrency != 1 {
		t.Fatalf("DownloadConcurrency = %d", cfg.Pipeline.DownloadConcurrency)
	}
	if cfg.Pipeline.MaxBatchSize != 1 {
		t.Fatalf("MaxBatchSize = %d", cfg.Pipeline.MaxBatchSize)
	}
}

func TestSanitizeRetentionNeverUndercutsLinkTTL(t *testing.T) {
	t.Setenv("LINK_TTL", "2h")
	t.Setenv("ARCHIVE_RETENTION", "30m")

	cfg := parseConfig(t)
	if cfg.AWS.ArchiveRetention < cfg.AWS.LinkTTL {
		t.Fatalf("retention %v undercuts link ttl %v", cfg.AWS.ArchiveRetention, cfg.AWS.LinkTTL)
	}
}

func TestSanitizeTrimsPrefixes(t *testing.T) {
	t.Setenv("DOCS_PREFIX", " /cases/docs/ ")
	t.Setenv("ZIPS_PREFIX", "/cases/zips")

	cfg := parseConfig(t)
	if cfg.AWS.DocsPrefix != "cases/docs" {
		t.Fatalf("DocsPrefix = %q", cfg.AWS.DocsPrefix)
	}
	if cfg.AWS.ZipsPrefix != "cases/zips" {
		t.Fatalf("ZipsPrefix = %q", cfg.AWS.ZipsPrefix)
	}
}

func TestAWSValidate(t *testing.T) {
	cfg := AWSConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error with no bucket configured")
	}

	cfg.Bucket = "case-docs"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error with no lambda configured")
	}

	cfg.LambdaName = "generate-docs"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestGateValidate(t *testing.T) {
	gate := GateConfig{}
	if err := gate.Validate(false); err == nil {
		t.Fatal("an empty gate must be rejected outside dev mode")
	}
	if err := gate.Validate(true); err != nil {
		t.Fatalf("dev mode should allow an empty gate: %v", err)
	}

	gate = GateConfig{Login: "ops", Password: "secret"}
	if err := gate.Validate(false); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !gate.Enabled() {
		t.Fatal("configured gate should report enabled")
	}
}

func TestSMTPSanitizeDisablesWithoutHost(t *testing.T) {
	t.Setenv("SMTP_ENABLED", "true")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg := parseConfig(t)
	if cfg.SMTP.Enabled {
		t.Fatal("SMTP must be disabled when no host is set")
	}
}

func TestSlackSanitize(t *testing.T) {
	cfg := parseConfig(t)
	if cfg.Slack.Enabled() {
		t.Fatal("slack sink must be disabled without a webhook URL")
	}

	t.Setenv("SLACK_WEBHOOK_URL", "  https://hooks.slack.com/services/test  ")
	t.Setenv("SLACK_RETRY_LIMIT", "-3")

	cfg = parseConfig(t)
	if !cfg.Slack.Enabled() {
		t.Fatal("slack sink should be enabled with a webhook URL")
	}
	if cfg.Slack.WebhookURL != "https://hooks.slack.com/services/test" {
		t.Fatalf("webhook URL not trimmed: %q", cfg.Slack.WebhookURL)
	}
	if cfg.Slack.RetryLimit != 0 {
		t.Fatalf("negative retry limit must clamp to 0, got %d", cfg.Slack.RetryLimit)
	}
}

func TestDetectDevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg := parseConfig(t)
	if !cfg.IsDev {
		t.Fatal("APP_ENV=development should enable dev mode")
	}
}
