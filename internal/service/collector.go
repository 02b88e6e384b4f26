package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

// CollectorServiceOptions groups dependencies for CollectorService.
type CollectorServiceOptions struct {
	Store      core.ObjectStore // Required: object store
	DocsPrefix string           // Required: namespace holding case folders
	Logger     *slog.Logger     // Optional: structured logger
}

// CollectorService lists the stored documents of one case folder.
type CollectorService struct {
	store      core.ObjectStore
	docsPrefix string
	logger     *slog.Logger
}

// NewCollectorService constructs a new CollectorService.
func NewCollectorService(opts CollectorServiceOptions) *CollectorService {
	if opts.Store == nil {
		panic("ObjectStore is required")
	}
	if strings.TrimSpace(opts.DocsPrefix) == "" {
		panic("DocsPrefix is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectorService{
		store:      opts.Store,
		docsPrefix: strings.Trim(opts.DocsPrefix, "/"),
		logger:     logger,
	}
}

// List returns the object keys of every document in the case folder, in
// listing order. Folder markers are excluded. A case with no documents
// returns model.ErrNoDocuments, which is an informational condition distinct
// from a transport failure.
func (s *CollectorService) List(ctx context.Context, caseID string) ([]string, error) {
	prefix := path.Join(s.docsPrefix, caseID) + "/"

	raw, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, model.WrapFailure(model.FailureTransport, "list case folder",
			fmt.Sprintf("listing %s", prefix), err)
	}

	keys := make([]string, 0, len(raw))
	for _, key := range raw {
		if strings.HasSuffix(key, "/") {
			continue // folder marker, nothing to download
		}
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		s.logger.InfoContext(ctx, "no documents for case", "case_id", caseID, "prefix", prefix)
		return nil, fmt.Errorf("case %s: %w", caseID, model.ErrNoDocuments)
	}

	s.logger.InfoContext(ctx, "case documents listed", "case_id", caseID, "count", len(keys))
	return keys, nil
}
