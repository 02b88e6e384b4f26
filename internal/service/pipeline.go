package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
	"github.com/autobmg/processdocs/internal/observability/metrics"
	"github.com/autobmg/processdocs/internal/observability/notify"
	"github.com/autobmg/processdocs/internal/observability/statsd"
)

// PipelineServiceOptions groups dependencies for PipelineService.
type PipelineServiceOptions struct {
	Dispatcher *DispatchService    // Required
	Collector  *CollectorService   // Required
	Archiver   *ArchiverService    // Required
	Publisher  *PublishService     // Required
	States     core.BatchStateRepo // Required: batch snapshot store

	Notifier notify.Sink  // Optional: delivery notification sink
	Metrics  statsd.Sink  // Optional: metrics sink
	Clock    Clock        // Optional: defaults to time.Now
	Logger   *slog.Logger // Optional: structured logger

	// MaxBatchSize caps process codes per submission; defaults to 5.
	MaxBatchSize int
}

// PipelineService orchestrates the full per-batch flow: fan-out dispatch of
// every process code, then collection, packaging and publication for each
// code the remote runner accepted. Codes progress independently; one code's
// failure never affects its siblings. State snapshots go to the batch store
// so callers can observe out-of-order completion; credentials never do.
type PipelineService struct {
	dispatcher *DispatchService
	collector  *CollectorService
	archiver   *ArchiverService
	publisher  *PublishService
	states     core.BatchStateRepo
	notifier   notify.Sink
	metrics    statsd.Sink
	clock      Clock
	logger     *slog.Logger
	maxBatch   int
}

const defaultMaxBatchSize = 5

// NewPipelineService constructs a new PipelineService.
func NewPipelineService(opts PipelineServiceOptions) *PipelineService {
	if opts.Dispatcher == nil {
		panic("DispatchService is required")
	}
	if opts.Collector == nil {
		panic("CollectorService is required")
	}
	if opts.Archiver == nil {
		panic("ArchiverService is required")
	}
	if opts.Publisher == nil {
		panic("PublishService is required")
	}
	if opts.States == nil {
		panic("BatchStateRepo is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBatch := opts.MaxBatchSize
	if maxBatch < 1 {
		maxBatch = defaultMaxBatchSize
	}

	return &PipelineService{
		dispatcher: opts.Dispatcher,
		collector:  opts.Collector,
		archiver:   opts.Archiver,
		publisher:  opts.Publisher,
		states:     opts.States,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		clock:      clock,
		logger:     logger,
		maxBatch:   maxBatch,
	}
}

// Status returns the stored snapshot for a batch.
func (s *PipelineService) Status(ctx context.Context, batchID string) (*model.BatchStatus, error) {
	status, err := s.states.Get(ctx, batchID)
	if err != nil {
		if errors.Is(err, core.ErrBatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get batch status: %w", err)
	}
	return status, nil
}

// Start validates the request, records the initial snapshot and runs the
// batch in the background. The submission context's cancellation is detached
// so an impatient HTTP client cannot abort in-flight remote jobs.
func (s *PipelineService) Start(ctx context.Context, req model.BatchRequest) (string, error) {
	status, err := s.submit(ctx, req)
	if err != nil {
		return "", err
	}

	go s.run(context.WithoutCancel(ctx), status, req)

	return status.ID, nil
}

// Run executes a batch synchronously and returns the final snapshot.
func (s *PipelineService) Run(ctx context.Context, req model.BatchRequest) (*model.BatchStatus, error) {
	status, err := s.submit(ctx, req)
	if err != nil {
		return nil, err
	}
	s.run(ctx, status, req)
	return status, nil
}

func (s *PipelineService) submit(ctx context.Context, req model.BatchRequest) (*model.BatchStatus, error) {
	if err := req.Validate(s.maxBatch); err != nil {
		return nil, model.WrapFailure(model.FailureValidation, "submit batch", "invalid request", err)
	}

	codes := req.ValidCodes()
	status := &model.BatchStatus{
		ID:          uuid.NewString(),
		SubmittedAt: s.clock(),
		Codes:       make([]model.CodeStatus, 0, len(codes)),
	}
	for _, code := range codes {
		status.Codes = append(status.Codes, model.CodeStatus{
			ProcessCode: code,
			State:       model.CodeStateSubmitted,
		})
	}

	s.saveState(ctx, status)
	s.logger.InfoContext(ctx, "batch submitted", "batch_id", status.ID, "codes", len(codes))
	return status, nil
}

func (s *PipelineService) run(ctx context.Context, status *model.BatchStatus, req model.BatchRequest) {
	started := s.clock()

	s.dispatch(ctx, status, req)

	for i := range status.Codes {
		if status.Codes[i].State == model.CodeStateSucceeded {
			s.processCase(ctx, status, &status.Codes[i])
		}
	}

	completed := s.clock()
	status.CompletedAt = &completed
	s.saveState(ctx, status)

	metrics.EmitBatch(s.metrics, len(status.Codes), completed.Sub(started))
	s.logger.InfoContext(ctx, "batch finished",
		"batch_id", status.ID, "duration", completed.Sub(started).String())

	s.notifyDelivery(ctx, status, req.Email)
}

// dispatch runs phase one: fan-out invocation of every code.
func (s *PipelineService) dispatch(ctx context.Context, status *model.BatchStatus, req model.BatchRequest) {
	for i := range status.Codes {
		status.Codes[i].State = model.CodeStateDispatched
	}
	s.saveState(ctx, status)

	started := s.clock()
	outcomes, err := s.dispatcher.Dispatch(ctx, req.JobRequests(status.SubmittedAt))
	if err != nil {
		// Only reachable with an empty request set, which submit rejects.
		for i := range status.Codes {
			s.fail(&status.Codes[i], model.CodeStateFailed,
				model.WrapFailure(model.FailureValidation, "dispatch", "dispatch rejected", err))
		}
		s.saveState(ctx, status)
		return
	}
	duration := s.clock().Sub(started)

	for i := range status.Codes {
		cs := &status.Codes[i]
		outcome, found := outcomes[cs.ProcessCode]
		switch {
		case !found:
			// Cardinality invariant: the dispatcher owes one outcome per code.
			s.fail(cs, model.CodeStateFailed, model.NewFailure(model.FailureTransport,
				"dispatch", "no outcome produced"))
		case outcome.Succeeded():
			cs.State = model.CodeStateSucceeded
		case outcome.Failure != nil:
			s.fail(cs, model.CodeStateFailed, outcome.Failure)
		default:
			msg := fmt.Sprintf("remote job returned status %d", outcome.Result.StatusCode)
			if outcome.Result.Detail != "" {
				msg += ": " + outcome.Result.Detail
			}
			s.fail(cs, model.CodeStateFailed, model.NewFailure(model.FailureRemoteJob, "dispatch", msg))
		}

		result := metrics.ResultSuccess
		var stageErr error
		if cs.State != model.CodeStateSucceeded {
			result = metrics.ResultError
			stageErr = model.NewFailure(cs.FailureKind, "dispatch", cs.Error)
		}
		metrics.EmitStage(s.metrics, metrics.StageMetric{
			Stage:    metrics.StageDispatch,
			Result:   result,
			Duration: duration,
			Err:      stageErr,
		})
	}
	s.saveState(ctx, status)
}

// processCase runs phase two for one accepted code: collect, package, publish.
func (s *PipelineService) processCase(ctx context.Context, status *model.BatchStatus, cs *model.CodeStatus) {
	cs.State = model.CodeStateCollecting
	s.saveState(ctx, status)

	started := s.clock()
	keys, err := s.collector.List(ctx, cs.ProcessCode)
	if err != nil {
		if errors.Is(err, model.ErrNoDocuments) {
			cs.State = model.CodeStateEmpty
			cs.FailureKind = model.FailureEmptyResult
			metrics.EmitStage(s.metrics, metrics.StageMetric{
				Stage:  metrics.StageCollect,
				Result: metrics.ResultEmpty,
			})
		} else {
			s.fail(cs, model.CodeStateFailed, err)
			metrics.EmitStage(s.metrics, metrics.StageMetric{
				Stage:  metrics.StageCollect,
				Result: metrics.ResultError,
				Err:    err,
			})
		}
		s.saveState(ctx, status)
		return
	}
	metrics.EmitStage(s.metrics, metrics.StageMetric{
		Stage:    metrics.StageCollect,
		Result:   metrics.ResultSuccess,
		Duration: s.clock().Sub(started),
	})

	cs.State = model.CodeStatePackaging
	s.saveState(ctx, status)

	started = s.clock()
	job, err := s.archiver.Build(ctx, cs.ProcessCode, keys)
	if err != nil {
		s.fail(cs, model.CodeStatePublishFailed, err)
		s.saveState(ctx, status)
		metrics.EmitStage(s.metrics, metrics.StageMetric{
			Stage:  metrics.StageArchive,
			Result: metrics.ResultError,
			Err:    err,
		})
		return
	}
	defer func() {
		if relErr := job.Release(); relErr != nil {
			s.logger.WarnContext(ctx, "archive working directory release failed",
				"case_id", job.CaseID, "error", relErr)
		}
	}()
	cs.OmittedKeys = job.OmittedKeys
	metrics.EmitStage(s.metrics, metrics.StageMetric{
		Stage:    metrics.StageArchive,
		Result:   metrics.ResultSuccess,
		Duration: s.clock().Sub(started),
	})

	started = s.clock()
	link, err := s.publisher.Publish(ctx, job)
	if err != nil {
		s.fail(cs, model.CodeStatePublishFailed, err)
		s.saveState(ctx, status)
		metrics.EmitStage(s.metrics, metrics.StageMetric{
			Stage:  metrics.StagePublish,
			Result: metrics.ResultError,
			Err:    err,
		})
		return
	}

	cs.State = model.CodeStatePublished
	cs.DownloadURL = link.URL
	cs.LinkExpiresAt = &link.ExpiresAt
	s.saveState(ctx, status)
	metrics.EmitStage(s.metrics, metrics.StageMetric{
		Stage:    metrics.StagePublish,
		Result:   metrics.ResultSuccess,
		Duration: s.clock().Sub(started),
	})
}

// fail records a terminal failure state with its classification.
func (s *PipelineService) fail(cs *model.CodeStatus, state model.CodeState, err error) {
	cs.State = state
	cs.Error = err.Error()
	if failure, ok := model.AsFailure(err); ok {
		cs.FailureKind = failure.Kind
		cs.Error = failure.Error()
	} else {
		cs.FailureKind = model.FailureTransport
	}
}

// saveState persists the snapshot best-effort. The store is presentation
// state; losing a snapshot must not abort document processing.
func (s *PipelineService) saveState(ctx context.Context, status *model.BatchStatus) {
	if err := s.states.Save(ctx, status); err != nil {
		s.logger.WarnContext(ctx, "batch state save failed",
			"batch_id", status.ID, "error", err)
	}
}

func (s *PipelineService) notifyDelivery(ctx context.Context, status *model.BatchStatus, recipient string) {
	if s.notifier == nil {
		return
	}

	payload := notify.DeliveryPayload{
		Recipient:   recipient,
		BatchID:     status.ID,
		CompletedAt: s.clock(),
	}
	for i := range status.Codes {
		cs := &status.Codes[i]
		switch cs.State {
		case model.CodeStatePublished:
			payload.Links = append(payload.Links, notify.DeliveredLink{
				ProcessCode: cs.ProcessCode,
				URL:         cs.DownloadURL,
				ExpiresAt:   derefTime(cs.LinkExpiresAt),
			})
		case model.CodeStateEmpty:
			payload.EmptyCodes = append(payload.EmptyCodes, cs.ProcessCode)
		default:
			payload.FailedCodes = append(payload.FailedCodes, cs.ProcessCode)
		}
	}

	if err := s.notifier.SendDelivery(ctx, payload); err != nil {
		s.logger.WarnContext(ctx, "delivery notification failed",
			"batch_id", status.ID, "error", err)
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
