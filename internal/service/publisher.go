package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

// PublishConfig contains the delivery knobs.
type PublishConfig struct {
	// ZipsPrefix is the delivery namespace for packaged archives.
	ZipsPrefix string
	// LinkTTL is the validity window of the presigned URL.
	LinkTTL time.Duration
	// Retention is how long the bucket lifecycle rule keeps delivered
	// archives before deleting them.
	Retention time.Duration
}

// PublishServiceOptions groups dependencies for PublishService.
type PublishServiceOptions struct {
	Store  core.ObjectStore // Required: object store
	Config PublishConfig
	Logger *slog.Logger // Optional: structured logger
}

// PublishService uploads a built archive to the delivery namespace, mints a
// time-limited download link and keeps the delivery prefix's expiry rule
// installed.
type PublishService struct {
	store      core.ObjectStore
	zipsPrefix string
	linkTTL    time.Duration
	retention  time.Duration
	logger     *slog.Logger
}

// NewPublishService constructs a new PublishService.
func NewPublishService(opts PublishServiceOptions) *PublishService {
	if opts.Store == nil {
		panic("ObjectStore is required")
	}
	if strings.TrimSpace(opts.Config.ZipsPrefix) == "" {
		panic("ZipsPrefix is required")
	}
	linkTTL := opts.Config.LinkTTL
	if linkTTL <= 0 {
		linkTTL = time.Hour
	}
	retention := opts.Config.Retention
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PublishService{
		store:      opts.Store,
		zipsPrefix: strings.Trim(opts.Config.ZipsPrefix, "/"),
		linkTTL:    linkTTL,
		retention:  retention,
		logger:     logger,
	}
}

// Publish uploads the archive under <zips prefix>/<case>/<filename> and
// returns a presigned link valid for the configured TTL. Fail-closed: the
// expiry rule is installed before the link is minted, so a link to an object
// that can never expire does not exist even transiently.
func (s *PublishService) Publish(ctx context.Context, job *model.ArchiveJob) (*model.DeliveryLink, error) {
	key := path.Join(s.zipsPrefix, job.CaseID, filepath.Base(job.ArchivePath))

	if err := s.store.Upload(ctx, key, job.ArchivePath); err != nil {
		return nil, model.WrapFailure(model.FailurePublish, "publish archive",
			fmt.Sprintf("uploading %s", key), err)
	}

	if err := s.store.EnsureLifecycle(ctx, s.zipsPrefix+"/", s.retention); err != nil {
		return nil, model.WrapFailure(model.FailurePublish, "publish archive",
			"installing lifecycle rule", err)
	}

	url, expiresAt, err := s.store.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		return nil, model.WrapFailure(model.FailurePublish, "publish archive",
			fmt.Sprintf("presigning %s", key), err)
	}

	s.logger.InfoContext(ctx, "archive published",
		"case_id", job.CaseID, "key", key, "expires_at", expiresAt)

	return &model.DeliveryLink{
		URL:       url,
		ExpiresAt: expiresAt,
		ObjectKey: key,
	}, nil
}
