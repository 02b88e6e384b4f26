// Package model defines the core data types used throughout the processdocs pipeline.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Secret is an opaque credential value. It serializes and logs as a redacted
// placeholder so a password can never leak through logging or state snapshots;
// callers that genuinely need the raw value must convert explicitly.
type Secret string

const redactedPlaceholder = "[redacted]"

// String implements fmt.Stringer with the raw value masked.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// LogValue implements slog.LogValuer so structured logs never carry the raw value.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// MarshalJSON always emits the redacted placeholder.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts a plain JSON string.
func (s *Secret) UnmarshalJSON(data []byte) error {
	v := strings.Trim(string(data), `"`)
	*s = Secret(v)
	return nil
}

// Reveal returns the raw credential value. Only transport adapters that build
// the remote payload should call this.
func (s Secret) Reveal() string {
	return string(s)
}

// JobRequest is one unit of work submitted to the remote job runner: the
// requester's BMG credentials plus a single process code. It is immutable and
// never persisted beyond the request's lifetime.
type JobRequest struct {
	Email       string
	Login       string
	Password    Secret
	ProcessCode string
	SubmittedAt time.Time
}

// Validate checks that the request carries everything the remote runner needs.
// Credential values are opaque; the remote system is authoritative on whether
// they are correct.
func (r *JobRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	if strings.TrimSpace(r.Login) == "" {
		return errors.New("login is required and cannot be empty")
	}
	if r.Password == "" {
		return errors.New("password is required and cannot be empty")
	}
	if strings.TrimSpace(r.ProcessCode) == "" {
		return errors.New("process code is required and cannot be empty")
	}
	return nil
}

// LogValue implements slog.LogValuer. The password attribute is carried as a
// Secret and therefore redacted.
func (r JobRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", r.Email),
		slog.String("login", r.Login),
		slog.String("password", r.Password.String()),
		slog.String("process_code", r.ProcessCode),
	)
}

// BatchRequest is a user submission: one set of credentials and up to
// MaxBatchSize process codes. Empty code slots are tolerated and filtered,
// matching the fixed five-input submission form.
type BatchRequest struct {
	Email        string   `json:"email"`
	Login        string   `json:"login"`
	Password     Secret   `json:"password"`
	ProcessCodes []string `json:"process_codes"`
}

// ValidCodes returns the non-empty, trimmed process codes in submission order,
// with duplicates removed.
func (b *BatchRequest) ValidCodes() []string {
	seen := make(map[string]struct{}, len(b.ProcessCodes))
	codes := make([]string, 0, len(b.ProcessCodes))
	for _, code := range b.ProcessCodes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// Validate checks credentials and the batch size bound. maxCodes is the
// configured per-batch cap (5 in the submission form).
func (b *BatchRequest) Validate(maxCodes int) error {
	if strings.TrimSpace(b.Email) == "" {
		return errors.New("email is required and cannot be empty")
	}
	if strings.TrimSpace(b.Login) == "" {
		return errors.New("login is required and cannot be empty")
	}
	if b.Password == "" {
		return errors.New("password is required and cannot be empty")
	}
	codes := b.ValidCodes()
	if len(codes) == 0 {
		return errors.New("at least one process code is required and cannot be empty")
	}
	if maxCodes > 0 && len(codes) > maxCodes {
		return fmt.Errorf("process codes cannot exceed %d per batch", maxCodes)
	}
	return nil
}

// JobRequests expands the batch into one JobRequest per valid code.
func (b *BatchRequest) JobRequests(now time.Time) []JobRequest {
	codes := b.ValidCodes()
	reqs := make([]JobRequest, 0, len(codes))
	for _, code := range codes {
		reqs = append(reqs, JobRequest{
			Email:       b.Email,
			Login:       b.Login,
			Password:    b.Password,
			ProcessCode: code,
			SubmittedAt: now,
		})
	}
	return reqs
}
