package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - aws.go: AWS credentials, bucket layout and remote job function
//   - pipeline.go: dispatch/download pools and partial-failure policy
//   - http.go: HTTP server configuration
//   - auth.go: access gate credentials
//   - redis.go: batch state store configuration
//   - notify.go: SMTP and Slack notification configuration
//   - observability.go: metrics configuration
type AppConfig struct {
	// IsDev controls development mode behavior (in-memory state store,
	// relaxed gate). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// AWS configuration (bucket, Lambda function, credentials)
	AWS AWSConfig

	// Pipeline configuration (pools, batch bounds, download policy)
	Pipeline PipelineConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Access gate configuration
	Gate GateConfig

	// Batch state store configuration
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Delivery notification configuration
	SMTP SMTPConfig `envPrefix:"SMTP_"`

	// Ops-channel notification configuration
	Slack SlackConfig `envPrefix:"SLACK_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.AWS.Sanitize()
	c.Pipeline.Sanitize()
	c.HTTP.Sanitize()
	c.Redis.Sanitize()
	c.SMTP.Sanitize()
	c.Slack.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
