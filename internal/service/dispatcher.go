package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/autobmg/processdocs/internal/core"
	"github.com/autobmg/processdocs/internal/domain/model"
)

const defaultDispatchConcurrency = 5

// DispatchServiceOptions groups dependencies for DispatchService.
type DispatchServiceOptions struct {
	Invoker     core.JobInvoker // Required: remote job invoker
	Concurrency int             // Optional: worker cap; defaults to 5
	Logger      *slog.Logger    // Optional: structured logger
}

// DispatchService fans a batch of job requests out to the remote runner with
// a bounded worker pool. One outcome is always produced per input code; a
// failing worker never cancels or blocks its siblings.
type DispatchService struct {
	invoker     core.JobInvoker
	concurrency int
	logger      *slog.Logger
}

// NewDispatchService constructs a new DispatchService.
func NewDispatchService(opts DispatchServiceOptions) *DispatchService {
	if opts.Invoker == nil {
		panic("JobInvoker is required")
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = defaultDispatchConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchService{
		invoker:     opts.Invoker,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Dispatch runs every request through the invoker and returns one Outcome per
// process code, keyed by code. Results land in completion order internally;
// the mapping itself carries no order. Submitting more requests than the
// worker cap queues the excess rather than rejecting it.
//
// Callers must validate that at least one request exists; an empty set is an
// error here, not a silent no-op.
func (s *DispatchService) Dispatch(ctx context.Context, reqs []model.JobRequest) (map[string]model.Outcome, error) {
	if len(reqs) == 0 {
		return nil, errors.New("at least one job request is required")
	}

	var mu sync.Mutex
	outcomes := make(map[string]model.Outcome, len(reqs))

	g := &errgroup.Group{}
	g.SetLimit(s.concurrency)
	for _, req := range reqs {
		g.Go(func() error {
			out := s.invokeOne(ctx, req)
			mu.Lock()
			outcomes[req.ProcessCode] = out
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers report faults as Failure outcomes, never as errors

	return outcomes, nil
}

// invokeOne executes a single invocation and converts every fault, including
// a panicking invoker, into a typed Outcome at the worker boundary.
func (s *DispatchService) invokeOne(ctx context.Context, req model.JobRequest) (out model.Outcome) {
	out.ProcessCode = req.ProcessCode

	defer func() {
		if r := recover(); r != nil {
			out.Result = nil
			out.Failure = model.NewFailure(model.FailureTransport, "invoke",
				fmt.Sprintf("worker fault: %v", r))
			s.logger.ErrorContext(ctx, "invoke worker fault",
				"process_code", req.ProcessCode, "fault", fmt.Sprint(r))
		}
	}()

	result, err := s.invoker.Invoke(ctx, req)
	if err != nil {
		failure, ok := model.AsFailure(err)
		if !ok {
			failure = model.WrapFailure(model.FailureTransport, "invoke", "remote invocation failed", err)
		}
		s.logger.WarnContext(ctx, "job invocation failed",
			"process_code", req.ProcessCode, "kind", string(failure.Kind), "error", err)
		out.Failure = failure
		return out
	}

	s.logger.InfoContext(ctx, "job invoked",
		"process_code", req.ProcessCode, "status_code", result.StatusCode)
	out.Result = result
	return out
}
