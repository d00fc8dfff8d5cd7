package metrics

import (
	"context"
	"time"
)

// PipelineRecorder receives one observation per finished story pipeline.
type PipelineRecorder interface {
	RecordPipeline(ctx context.Context, pipeline, outcome string, duration time.Duration)
}

// FanOut forwards each pipeline observation to every non-nil recorder.
type FanOut []PipelineRecorder

// NewFanOut builds a FanOut, skipping nil recorders.
func NewFanOut(recorders ...PipelineRecorder) FanOut {
	out := make(FanOut, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f FanOut) RecordPipeline(ctx context.Context, pipeline, outcome string, duration time.Duration) {
	for _, r := range f {
		r.RecordPipeline(ctx, pipeline, outcome, duration)
	}
}
