// Package metrics emits standardised pipeline metrics.
package metrics

import (
	"time"

	obserrors "github.com/autobmg/processdocs/internal/observability/errors"
	"github.com/autobmg/processdocs/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultEmpty   = "empty"
)

// Stage constants identify pipeline stages in metric tags.
const (
	StageDispatch = "dispatch"
	StageCollect  = "collect"
	StageArchive  = "archive"
	StagePublish  = "publish"
)

// StageMetric captures one per-code stage completion for metric emission.
type StageMetric struct {
	Stage    string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitStage emits standardised per-code stage metrics.
func EmitStage(sink statsd.Sink, in StageMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"stage":  in.Stage,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("pipeline.stage", 1, tags)
	if in.Duration > 0 {
		sink.Timing("pipeline.stage_duration", in.Duration, tags)
	}
}

// EmitBatch emits one batch completion.
func EmitBatch(sink statsd.Sink, codes int, duration time.Duration) {
	if sink == nil {
		return
	}
	sink.Count("pipeline.batches", 1, nil)
	sink.Count("pipeline.codes", int64(codes), nil)
	if duration > 0 {
		sink.Timing("pipeline.batch_duration", duration, nil)
	}
}
