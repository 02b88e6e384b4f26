package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/autobmg/processdocs/config"
	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

// Clock returns the current time. Injectable so archive naming and expiry
// assertions are testable.
type Clock func() time.Time

const (
	defaultDownloadConcurrency = 10
	archiveTimestampLayout     = "20060102_150405"
)

// ArchiverConfig contains the packaging knobs.
type ArchiverConfig struct {
	// DownloadConcurrency caps concurrent object downloads; defaults to 10.
	DownloadConcurrency int
	// Policy selects best-effort or fail-fast handling of per-object
	// download failures.
	Policy config.PartialDownloadPolicy
}

// ArchiverServiceOptions groups dependencies for ArchiverService.
type ArchiverServiceOptions struct {
	Store  core.ObjectStore // Required: object store
	Config ArchiverConfig
	Clock  Clock        // Optional: defaults to time.Now
	Logger *slog.Logger // Optional: structured logger
}

// ArchiverService downloads the objects of one case concurrently into a
// scoped working directory and packages them into a single deflate zip.
type ArchiverService struct {
	store       core.ObjectStore
	concurrency int
	policy      config.PartialDownloadPolicy
	clock       Clock
	logger      *slog.Logger
}

// NewArchiverService constructs a new ArchiverService.
func NewArchiverService(opts ArchiverServiceOptions) *ArchiverService {
	if opts.Store == nil {
		panic("ObjectStore is required")
	}
	concurrency := opts.Config.DownloadConcurrency
	if concurrency < 1 {
		concurrency = defaultDownloadConcurrency
	}
	policy := opts.Config.Policy
	if !policy.Valid() {
		policy = config.PolicyBestEffort
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiverService{
		store:       opts.Store,
		concurrency: concurrency,
		policy:      policy,
		clock:       clock,
		logger:      logger,
	}
}

// Build downloads every key and produces case_<id>_<timestamp>.zip inside a
// working directory owned exclusively by this invocation. On success the
// returned ArchiveJob owns the directory and the caller must Release it; on
// any failure the directory is already gone. Under the best-effort policy a
// failed download is logged, skipped and recorded on the job's OmittedKeys;
// under fail-fast the first failure aborts the build.
func (s *ArchiverService) Build(ctx context.Context, caseID string, keys []string) (*model.ArchiveJob, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("case %s: %w", caseID, model.ErrNoDocuments)
	}

	workDir, err := os.MkdirTemp("", "processdocs-case-*")
	if err != nil {
		return nil, model.WrapFailure(model.FailureArchive, "build archive",
			"creating working directory", err)
	}
	ok := false
	defer func() {
		if !ok {
			if rmErr := os.RemoveAll(workDir); rmErr != nil {
				s.logger.WarnContext(ctx, "working directory cleanup failed",
					"dir", workDir, "error", rmErr)
			}
		}
	}()

	files, omitted, err := s.download(ctx, workDir, keys)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, model.NewFailure(model.FailurePartialDownload, "build archive",
			fmt.Sprintf("case %s: every download failed", caseID))
	}

	archivePath := filepath.Join(workDir,
		fmt.Sprintf("case_%s_%s.zip", caseID, s.clock().Format(archiveTimestampLayout)))
	if err := writeZip(archivePath, files); err != nil {
		return nil, model.WrapFailure(model.FailureArchive, "build archive",
			"writing zip", err)
	}

	s.logger.InfoContext(ctx, "archive built",
		"case_id", caseID, "files", len(files), "omitted", len(omitted),
		"archive", filepath.Base(archivePath))

	ok = true
	return &model.ArchiveJob{
		CaseID:      caseID,
		WorkDir:     workDir,
		Files:       files,
		ArchivePath: archivePath,
		OmittedKeys: omitted,
	}, nil
}

type downloaded struct {
	key  string
	path string
	err  error
}

// download fetches all keys with a bounded pool. The returned file list is in
// download completion order.
func (s *ArchiverService) download(ctx context.Context, workDir string, keys []string) (files, omitted []string, err error) {
	var mu sync.Mutex
	names := make(map[string]int, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, key := range keys {
		g.Go(func() error {
			d := s.downloadOne(gctx, workDir, key, &mu, names)
			mu.Lock()
			defer mu.Unlock()
			if d.err != nil {
				if s.policy == config.PolicyFailFast {
					return model.WrapFailure(model.FailurePartialDownload, "download object",
						fmt.Sprintf("downloading %s", key), d.err)
				}
				s.logger.WarnContext(gctx, "object download failed, skipping",
					"key", key, "error", d.err)
				omitted = append(omitted, key)
				return nil
			}
			files = append(files, d.path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return files, omitted, nil
}

// downloadOne fetches a single object, containing any fault at the worker
// boundary. Duplicate base names across case subfolders get a numeric prefix
// so archive membership stays one entry per object.
func (s *ArchiverService) downloadOne(ctx context.Context, workDir, key string, mu *sync.Mutex, names map[string]int) (d downloaded) {
	d.key = key
	defer func() {
		if r := recover(); r != nil {
			d.err = fmt.Errorf("worker fault: %v", r)
		}
	}()

	base := path.Base(key)
	mu.Lock()
	// Probe until unused: a stored object legitimately named 1_report.pdf
	// must not collide with a de-duplicated report.pdf.
	name := base
	for n := 1; names[name] > 0; n++ {
		name = fmt.Sprintf("%d_%s", n, base)
	}
	names[name] = 1
	base = name
	mu.Unlock()

	dest := filepath.Join(workDir, base)
	if err := s.store.Download(ctx, key, dest); err != nil {
		_ = os.Remove(dest) // partial file, if any
		d.err = err
		return d
	}
	d.path = dest
	return d
}

// writeZip packages the files under their base names using deflate, removing
// each source file once it has been added.
func writeZip(archivePath string, files []string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create %s: %w", archivePath, err)
	}
	zw := zip.NewWriter(out)

	for _, file := range files {
		if err := addZipEntry(zw, file); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return err
		}
		_ = os.Remove(file)
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finalize zip: %w", err)
	}
	return out.Close()
}

func addZipEntry(zw *zip.Writer, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer func() {
		_ = in.Close()
	}()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   filepath.Base(file),
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("add zip entry %s: %w", filepath.Base(file), err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("write zip entry %s: %w", filepath.Base(file), err)
	}
	return nil
}
