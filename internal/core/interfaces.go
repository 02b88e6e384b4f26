// Package core defines the port interfaces the service layer depends on.
// Adapters implement them; services never import adapter packages.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/autobmg/processdocs/internal/domain/model"
)

// JobInvoker submits one unit of work to the remote compute endpoint. A single
// attempt is made; retry policy is deliberately absent. Transport and function
// errors come back as *model.Failure values, never as panics.
type JobInvoker interface {
	Invoke(ctx context.Context, req model.JobRequest) (*model.JobResult, error)
}

// ObjectStore is the storage surface the pipeline needs: list a case folder,
// fetch and store objects, mint time-limited links, and keep the delivery
// prefix's expiry rule installed.
type ObjectStore interface {
	// List returns every object key under prefix, in listing order. An empty
	// result is not an error.
	List(ctx context.Context, prefix string) ([]string, error)

	// Download fetches one object into destPath.
	Download(ctx context.Context, key, destPath string) error

	// Upload stores the file at srcPath under key.
	Upload(ctx context.Context, key, srcPath string) error

	// PresignGet issues a capability URL for key valid for ttl, returning the
	// URL and its expiry instant.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)

	// EnsureLifecycle installs the expiry rule for objects under prefix.
	// The call is idempotent; repeated installs are safe.
	EnsureLifecycle(ctx context.Context, prefix string, retention time.Duration) error
}

// ErrBatchNotFound is returned when a batch ID is unknown or its snapshot has
// expired from the state store.
var ErrBatchNotFound = errors.New("batch not found")

// BatchStateRepo stores presentation snapshots of in-flight and completed
// batches. Snapshots expire with the archive retention window; this is not a
// durable job queue and never holds credentials.
type BatchStateRepo interface {
	Save(ctx context.Context, status *model.BatchStatus) error
	Get(ctx context.Context, id string) (*model.BatchStatus, error)
}
