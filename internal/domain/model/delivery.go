package model

import (
	"os"
	"time"
)

// DeliveryLink is a time-limited capability to download one delivered archive.
// The backing object is expired by a bucket lifecycle rule, independently of
// this process.
type DeliveryLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	ObjectKey string    `json:"object_key"`
}

// ArchiveJob tracks one packaging operation: the scoped working directory,
// the files collected into it, and the produced archive. Each packaging
// operation owns its working directory exclusively; Release must be called on
// every exit path.
type ArchiveJob struct {
	CaseID      string
	WorkDir     string
	Files       []string
	ArchivePath string
	// OmittedKeys are objects that failed to download and were skipped under
	// the best-effort policy.
	OmittedKeys []string
}

// Release deletes the working directory and everything in it, including the
// archive. Safe to call more than once.
func (a *ArchiveJob) Release() error {
	if a == nil || a.WorkDir == "" {
		return nil
	}
	err := os.RemoveAll(a.WorkDir)
	a.WorkDir = ""
	return err
}
