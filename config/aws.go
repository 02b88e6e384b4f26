package config

import (
	"errors"
	"strings"
	"time"
)

// AWSConfig contains the object store and remote job runner configuration.
// Credential values are opaque to this service; the SDK is authoritative.
type AWSConfig struct {
	// Bucket is the S3 bucket holding case documents and delivered archives.
	Bucket string `env:"AWS_S3_BUCKET_NAME"`

	// LambdaName identifies the remote job function that generates documents.
	LambdaName string `env:"AWS_LAMBDA_NAME"`

	// Static credentials. Leave empty to fall back to the SDK's default
	// credential chain (instance profile, SSO, etc.).
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	// DocsPrefix is the namespace holding per-case document folders.
	DocsPrefix string `env:"DOCS_PREFIX" envDefault:"documents/downloads"`

	// ZipsPrefix is the delivery namespace for packaged archives.
	ZipsPrefix string `env:"ZIPS_PREFIX" envDefault:"documents/downloads/zips"`

	// InvokeTimeout bounds one remote job invocation. Document generation is
	// slow; runs of ten minutes or more are normal.
	InvokeTimeout time.Duration `env:"INVOKE_TIMEOUT" envDefault:"15m"`

	// LinkTTL is the validity window of a presigned download URL.
	LinkTTL time.Duration `env:"LINK_TTL" envDefault:"1h"`

	// ArchiveRetention is how long delivered archives live before the bucket
	// lifecycle rule removes them. Must not undercut LinkTTL.
	ArchiveRetention time.Duration `env:"ARCHIVE_RETENTION" envDefault:"24h"`
}

// Sanitize applies guardrails to AWS configuration values.
func (a *AWSConfig) Sanitize() {
	a.Bucket = strings.TrimSpace(a.Bucket)
	a.LambdaName = strings.TrimSpace(a.LambdaName)
	a.DocsPrefix = strings.Trim(strings.TrimSpace(a.DocsPrefix), "/")
	a.ZipsPrefix = strings.Trim(strings.TrimSpace(a.ZipsPrefix), "/")

	if a.InvokeTimeout < time.Minute {
		a.InvokeTimeout = time.Minute
	}
	if a.LinkTTL < time.Minute {
		a.LinkTTL = time.Minute
	}
	// A link must never outlive its backing object.
	if a.ArchiveRetention < a.LinkTTL {
		a.ArchiveRetention = 24 * time.Hour
	}
}

// Validate checks that the fields without workable defaults are present.
func (a *AWSConfig) Validate() error {
	if a.Bucket == "" {
		return errors.New("AWS_S3_BUCKET_NAME is required and cannot be empty")
	}
	if a.LambdaName == "" {
		return errors.New("AWS_LAMBDA_NAME is required and cannot be empty")
	}
	return nil
}
