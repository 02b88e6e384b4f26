package model

import (
	"errors"
	"fmt"
	"net/http"
)

// FailureKind classifies a pipeline failure for reporting and metrics tagging.
type FailureKind string

const (
	// FailureTransport is a network or SDK error during invoke/list/get/put.
	FailureTransport FailureKind = "transport"
	// FailureRemoteJob means the remote function ran but signaled a non-200
	// outcome or an explicit function error.
	FailureRemoteJob FailureKind = "remote_job"
	// FailureEmptyResult means no stored objects exist for a case. It is an
	// informational condition, kept in the taxonomy so it can be tagged.
	FailureEmptyResult FailureKind = "empty_result"
	// FailurePartialDownload means one or more case objects failed to download.
	FailurePartialDownload FailureKind = "partial_download"
	// FailureArchive is a local packaging fault: the working directory could
	// not be created or the zip could not be written. No download failed.
	FailureArchive FailureKind = "archive"
	// FailurePublish means the archive upload or the lifecycle-rule
	// installation failed; the delivery link is withheld either way.
	FailurePublish FailureKind = "publish"
	// FailureValidation is a rejected request before any remote call.
	FailureValidation FailureKind = "validation"
)

// Valid returns true if the FailureKind is one of the known kinds.
func (k FailureKind) Valid() bool {
	switch k {
	case FailureTransport, FailureRemoteJob, FailureEmptyResult,
		FailurePartialDownload, FailureArchive, FailurePublish, FailureValidation:
		return true
	}
	return false
}

// Failure is a structured, typed outcome for any error crossing a component
// boundary. Workers capture faults as Failure values; nothing panics past its
// own boundary.
type Failure struct {
	Kind    FailureKind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Op, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Op, f.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure builds a Failure without an underlying cause.
func NewFailure(kind FailureKind, op, message string) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message}
}

// WrapFailure builds a Failure around an underlying error.
func WrapFailure(kind FailureKind, op, message string, err error) *Failure {
	return &Failure{Kind: kind, Op: op, Message: message, Err: err}
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// ErrNoDocuments is the empty-result condition: the case folder holds no
// objects. It is distinct from a transport error and is not a failure of the
// pipeline itself.
var ErrNoDocuments = errors.New("no documents found for case")

// JobResult is the decoded response of one remote job invocation. It lives in
// memory only.
type JobResult struct {
	ProcessCode string `json:"process_code"`
	StatusCode  int    `json:"status_code"`
	Body        string `json:"body,omitempty"`
	// Detail is an optional human-readable message extracted from the body.
	Detail string `json:"detail,omitempty"`
}

// Accepted reports whether the remote runner accepted the job for processing.
// A 200 means accepted, not that document generation has finished.
func (r *JobResult) Accepted() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Outcome is the per-code result of a dispatch: exactly one of Result or
// Failure is meaningful. The dispatcher returns one Outcome per input code.
type Outcome struct {
	ProcessCode string
	Result      *JobResult
	Failure     *Failure
}

// Succeeded reports whether the code was accepted by the remote runner and
// may proceed to document collection.
func (o Outcome) Succeeded() bool {
	return o.Failure == nil && o.Result.Accepted()
}
