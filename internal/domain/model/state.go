package model

import "time"

// CodeState is the per-code processing state. Transitions:
//
//	submitted → dispatched → {succeeded, failed}
//	succeeded → collecting → {empty, packaging}
//	packaging → {published, publish_failed}
//
// failed, empty, published and publish_failed are terminal; a failed code
// requires a fresh submission, never an automatic retry.
type CodeState string

const (
	CodeStateSubmitted     CodeState = "submitted"
	CodeStateDispatched    CodeState = "dispatched"
	CodeStateSucceeded     CodeState = "succeeded"
	CodeStateFailed        CodeState = "failed"
	CodeStateCollecting    CodeState = "collecting"
	CodeStateEmpty         CodeState = "empty"
	CodeStatePackaging     CodeState = "packaging"
	CodeStatePublished     CodeState = "published"
	CodeStatePublishFailed CodeState = "publish_failed"
)

// Valid returns true if the CodeState is one of the known states.
func (s CodeState) Valid() bool {
	switch s {
	case CodeStateSubmitted, CodeStateDispatched, CodeStateSucceeded,
		CodeStateFailed, CodeStateCollecting, CodeStateEmpty,
		CodeStatePackaging, CodeStatePublished, CodeStatePublishFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s CodeState) Terminal() bool {
	switch s {
	case CodeStateFailed, CodeStateEmpty, CodeStatePublished, CodeStatePublishFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s CodeState) CanTransitionTo(next CodeState) bool {
	switch s {
	case CodeStateSubmitted:
		return next == CodeStateDispatched
	case CodeStateDispatched:
		return next == CodeStateSucceeded || next == CodeStateFailed
	case CodeStateSucceeded:
		return next == CodeStateCollecting
	case CodeStateCollecting:
		return next == CodeStateEmpty || next == CodeStatePackaging || next == CodeStateFailed
	case CodeStatePackaging:
		return next == CodeStatePublished || next == CodeStatePublishFailed
	}
	return false
}

// CodeStatus is the externally visible snapshot for one process code. It never
// carries credentials.
type CodeStatus struct {
	ProcessCode   string      `json:"process_code"`
	State         CodeState   `json:"state"`
	FailureKind   FailureKind `json:"failure_kind,omitempty"`
	Error         string      `json:"error,omitempty"`
	DownloadURL   string      `json:"download_url,omitempty"`
	LinkExpiresAt *time.Time  `json:"link_expires_at,omitempty"`
	// OmittedKeys lists objects skipped under the best-effort download policy.
	OmittedKeys []string `json:"omitted_keys,omitempty"`
}

// BatchStatus is the snapshot of one submitted batch, keyed by batch ID in the
// state store and returned by the status endpoint. Codes keep submission order.
type BatchStatus struct {
	ID          string       `json:"id"`
	SubmittedAt time.Time    `json:"submitted_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Codes       []CodeStatus `json:"codes"`
}

// Code returns the status entry for the given process code, or nil.
func (b *BatchStatus) Code(processCode string) *CodeStatus {
	for i := range b.Codes {
		if b.Codes[i].ProcessCode == processCode {
			return &b.Codes[i]
		}
	}
	return nil
}

// Done reports whether every code has reached a terminal state.
func (b *BatchStatus) Done() bool {
	for i := range b.Codes {
		if !b.Codes[i].State.Terminal() {
			return false
		}
	}
	return len(b.Codes) > 0
}
