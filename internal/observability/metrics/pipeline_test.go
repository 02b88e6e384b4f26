package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/autobmg/processdocs/internal/domain/model"
)

type recordedCount struct {
	name  string
	value int64
	tags  map[string]string
}

type recordedTiming struct {
	name string
	d    time.Duration
	tags map[string]string
}

type recordingSink struct {
	counts  []recordedCount
	timings []recordedTiming
}

func (r *recordingSink) Count(name string, value int64, tags map[string]string) {
	r.counts = append(r.counts, recordedCount{name: name, value: value, tags: tags})
}

func (r *recordingSink) Timing(name string, d time.Duration, tags map[string]string) {
	r.timings = append(r.timings, recordedTiming{name: name, d: d, tags: tags})
}

func TestEmitStageSuccess(t *testing.T) {
	sink := &recordingSink{}

	EmitStage(sink, StageMetric{
		Stage:    StagePublish,
		Result:   ResultSuccess,
		Duration: 120 * time.Millisecond,
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 count, got %d", len(sink.counts))
	}
	c := sink.counts[0]
	if c.name != "pipeline.stage" || c.value != 1 {
		t.Fatalf("unexpected count: %+v", c)
	}
	if c.tags["stage"] != "publish" || c.tags["result"] != "success" {
		t.Fatalf("unexpected tags: %v", c.tags)
	}
	if _, present := c.tags["error_class"]; present {
		t.Fatal("success metric must not carry an error class")
	}

	if len(sink.timings) != 1 || sink.timings[0].name != "pipeline.stage_duration" {
		t.Fatalf("unexpected timings: %+v", sink.timings)
	}
}

func TestEmitStageErrorClass(t *testing.T) {
	sink := &recordingSink{}

	EmitStage(sink, StageMetric{
		Stage:  StageDispatch,
		Result: ResultError,
		Err:    model.NewFailure(model.FailureTransport, "invoke lambda", "dial timeout"),
	})

	if len(sink.counts) != 1 {
		t.Fatalf("expected 1 count, got %d", len(sink.counts))
	}
	if got := sink.counts[0].tags["error_class"]; got != "transport" {
		t.Fatalf("error_class = %q, want transport", got)
	}
	if len(sink.timings) != 0 {
		t.Fatalf("zero duration must emit no timing, got %+v", sink.timings)
	}
}

func TestEmitStageNonErrorResultIgnoresErr(t *testing.T) {
	sink := &recordingSink{}

	EmitStage(sink, StageMetric{
		Stage:  StageCollect,
		Result: ResultEmpty,
		Err:    errors.New("ignored"),
	})

	if _, present := sink.counts[0].tags["error_class"]; present {
		t.Fatal("empty result must not be tagged with an error class")
	}
}

func TestEmitStageNilSink(t *testing.T) {
	// Must not panic.
	EmitStage(nil, StageMetric{Stage: StageArchive, Result: ResultSuccess})
	EmitBatch(nil, 3, time.Second)
}

func TestEmitBatch(t *testing.T) {
	sink := &recordingSink{}

	EmitBatch(sink, 3, 2*time.Second)

	if len(sink.counts) != 2 {
		t.Fatalf("expected 2 counts, got %d", len(sink.counts))
	}
	if sink.counts[0].name != "pipeline.batches" || sink.counts[0].value != 1 {
		t.Fatalf("unexpected batches count: %+v", sink.counts[0])
	}
	if sink.counts[1].name != "pipeline.codes" || sink.counts[1].value != 3 {
		t.Fatalf("unexpected codes count: %+v", sink.counts[1])
	}
	if len(sink.timings) != 1 || sink.timings[0].d != 2*time.Second {
		t.Fatalf("unexpected timings: %+v", sink.timings)
	}
}
