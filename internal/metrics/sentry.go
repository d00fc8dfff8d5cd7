package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
	outcomeSuccess             = "success"
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Always enabled if Sentry is configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("endpoint", endpoint)
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordPipeline tags the request transaction with the pipeline outcome.
func (m *SentryMetrics) RecordPipeline(ctx context.Context, pipeline, outcome string, duration time.Duration) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("story.pipeline", pipeline)
		transaction.SetTag("story.outcome", outcome)
	}

	span := sentry.StartSpan(ctx, "story.pipeline.result")
	defer span.Finish()

	span.SetTag("pipeline", pipeline)
	span.SetTag("outcome", outcome)
	span.SetData("duration_ms", duration.Milliseconds())

	if outcome == outcomeSuccess {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = spanStatusForOutcome(outcome)
	}
	span.Description = fmt.Sprintf("Story Pipeline: %s (%s)", pipeline, outcome)
}

func spanStatusForOutcome(outcome string) sentry.SpanStatus {
	switch outcome {
	case "moderation", "validation":
		return sentry.SpanStatusInvalidArgument
	case "canceled":
		return sentry.SpanStatusCanceled
	case "backend", "image", "format":
		return sentry.SpanStatusUnavailable
	default:
		return sentry.SpanStatusInternalError
	}
}
