package config

import (
	"fmt"
	"strings"
	"time"
)

// PartialDownloadPolicy decides what happens when one case object fails to
// download while the rest succeed.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type PartialDownloadPolicy string

const (
	// PolicyBestEffort logs and skips the failed object; the archive is
	// produced without it and the omission is reported to the caller.
	PolicyBestEffort PartialDownloadPolicy = "best-effort"
	// PolicyFailFast aborts the whole archive build on the first failed
	// download.
	PolicyFailFast PartialDownloadPolicy = "fail-fast"
)

// Valid returns true if the policy is one of the known values.
func (p PartialDownloadPolicy) Valid() bool {
	return p == PolicyBestEffort || p == PolicyFailFast
}

// UnmarshalText implements encoding.TextUnmarshaler to allow env parsing.
func (p *PartialDownloadPolicy) UnmarshalText(text []byte) error {
	v := PartialDownloadPolicy(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid partial download policy: %q (valid options: best-effort, fail-fast)", v)
	}
	*p = v
	return nil
}

// PipelineConfig contains dispatch and packaging configuration.
type PipelineConfig struct {
	// DispatchConcurrency caps concurrent remote job invocations.
	DispatchConcurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"5"`

	// MaxBatchSize caps process codes per submission (the form has 5 inputs).
	MaxBatchSize int `env:"MAX_BATCH_SIZE" envDefault:"5"`

	// DownloadConcurrency caps concurrent object downloads per archive build.
	DownloadConcurrency int `env:"DOWNLOAD_CONCURRENCY" envDefault:"10"`

	// PartialDownloadPolicy selects best-effort or fail-fast packaging.
	PartialDownloadPolicy PartialDownloadPolicy `env:"PARTIAL_DOWNLOAD_POLICY" envDefault:"best-effort"`

	// ResultDetailExpr is a JMESPath expression applied to a remote job's JSON
	// body to extract a human-readable detail message. Extraction is
	// best-effort; a non-matching body is not an error.
	ResultDetailExpr string `env:"RESULT_DETAIL_EXPR" envDefault:"message"`

	// StateTTL is how long batch snapshots live in the state store.
	StateTTL time.Duration `env:"STATE_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to pipeline configuration values.
func (p *PipelineConfig) Sanitize() {
	if p.DispatchConcurrency < 1 {
		p.DispatchConcurrency = 1
	}
	if p.MaxBatchSize < 1 {
		p.MaxBatchSize = 1
	}
	if p.DownloadConcurrency < 1 {
		p.DownloadConcurrency = 1
	}
	if !p.PartialDownloadPolicy.Valid() {
		p.PartialDownloadPolicy = PolicyBestEffort
	}
	if p.StateTTL < time.Hour {
		p.StateTTL = time.Hour
	}
}
