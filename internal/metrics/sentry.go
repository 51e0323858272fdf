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

	// Create a span for API request tracking using the request context
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

// RecordGeneration records one score generation
func (m *SentryMetrics) RecordGeneration(ctx context.Context, key, timeSig string, bars int, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetTag("key", key)
	span.SetTag("time_sig", timeSig)

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("bars", bars)
	span.SetData("success", success)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInvalidArgument
	}

	span.Description = fmt.Sprintf("Generation Request: %s %s", key, timeSig)
}

// RecordLibraryOperation records a save, apply, delete or export on a
// library. outcome is "ok", "duplicate", "not_found" or "error".
func (m *SentryMetrics) RecordLibraryOperation(ctx context.Context, operation, outcome string) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "library."+operation)
	defer span.Finish()

	span.SetTag("operation", operation)
	span.SetTag("outcome", outcome)
	span.SetData("outcome", outcome)

	switch outcome {
	case OutcomeOK:
		span.Status = sentry.SpanStatusOK
	case OutcomeNotFound:
		span.Status = sentry.SpanStatusNotFound
	case OutcomeDuplicate:
		span.Status = sentry.SpanStatusAlreadyExists
	case OutcomeInvalid:
		span.Status = sentry.SpanStatusInvalidArgument
	default:
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Library %s: %s", operation, outcome)
}

// RecordImport records an import attempt and the number of validation
// problems found
func (m *SentryMetrics) RecordImport(ctx context.Context, outcome string, problems int) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "library.import")
	defer span.Finish()

	span.SetTag("outcome", outcome)
	span.SetData("problems", problems)
	if outcome == OutcomeOK {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInvalidArgument
	}
	span.Description = fmt.Sprintf("Library import: %s", outcome)
}
