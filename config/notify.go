package config

import (
	"strings"
	"time"
)

// SMTPConfig contains the delivery notification configuration. When disabled
// (or missing a host) the pipeline runs without a notification sink and links
// are only available through the status endpoint.
type SMTPConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Host     string `env:"HOST"     envDefault:""`
	Port     int    `env:"PORT"     envDefault:"587"`
	Username string `env:"USERNAME" envDefault:""`
	Password string `env:"PASSWORD" envDefault:""`

	// From is the sender address on delivery notification mails.
	From string `env:"FROM" envDefault:""`

	// Timeout bounds one SMTP delivery attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to SMTP configuration values.
func (s *SMTPConfig) Sanitize() {
	s.Host = strings.TrimSpace(s.Host)
	s.From = strings.TrimSpace(s.From)
	if s.Host == "" || s.From == "" {
		s.Enabled = false
	}
	if s.Port <= 0 || s.Port > 65535 {
		s.Port = 587
	}
	if s.Timeout <= 0 {
		s.Timeout = 10 * time.Second
	}
}

// SlackConfig contains the ops-channel notification configuration. The Slack
// summary carries outcome counts only, never download links.
type SlackConfig struct {
	WebhookURL string `env:"WEBHOOK_URL" envDefault:""`
	Channel    string `env:"CHANNEL"     envDefault:""`
	Username   string `env:"USERNAME"    envDefault:"processdocs"`

	// Timeout bounds one webhook post; RetryLimit is the number of retries
	// after the first attempt.
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"2"`
}

// Enabled reports whether the Slack sink should be constructed.
func (s *SlackConfig) Enabled() bool {
	return s.WebhookURL != ""
}

// Sanitize applies guardrails to Slack configuration values.
func (s *SlackConfig) Sanitize() {
	s.WebhookURL = strings.TrimSpace(s.WebhookURL)
	s.Channel = strings.TrimSpace(s.Channel)
	s.Username = strings.TrimSpace(s.Username)
	if s.Timeout <= 0 {
		s.Timeout = 5 * time.Second
	}
	if s.RetryLimit < 0 {
		s.RetryLimit = 0
	}
}
