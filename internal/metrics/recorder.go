package metrics

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Operation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeDuplicate = "duplicate"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

// Recorder fans metrics out to Sentry and CloudWatch and keeps in-process
// counters for the metrics endpoint.
type Recorder struct {
	sentry     *SentryMetrics
	cloudwatch *Client

	mu       sync.Mutex
	counters map[string]int64
}

// NewRecorder creates a Recorder. cloudwatch may be nil.
func NewRecorder(cloudwatch *Client) *Recorder {
	return &Recorder{
		sentry:     NewSentryMetrics(),
		cloudwatch: cloudwatch,
		counters:   make(map[string]int64),
	}
}

// APIRequest records a finished HTTP request.
func (r *Recorder) APIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	r.sentry.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	if r.cloudwatch != nil {
		r.cloudwatch.RecordAPIRequest(endpoint, statusCode, duration)
	}
	r.inc("requests")
}

// Generation records a generate call.
func (r *Recorder) Generation(ctx context.Context, key, timeSig string, bars int, duration time.Duration, success bool) {
	r.sentry.RecordGeneration(ctx, key, timeSig, bars, duration, success)
	if r.cloudwatch != nil {
		r.cloudwatch.RecordGeneration(timeSig, bars, duration, success)
	}
	if success {
		r.inc("generate." + OutcomeOK)
	} else {
		r.inc("generate." + OutcomeInvalid)
	}
}

// LibraryOperation records a library save, apply, delete or export.
func (r *Recorder) LibraryOperation(ctx context.Context, operation, outcome string) {
	r.sentry.RecordLibraryOperation(ctx, operation, outcome)
	if r.cloudwatch != nil {
		r.cloudwatch.RecordLibraryOperation(operation, outcome)
	}
	r.inc(operation + "." + outcome)
}

// Import records an import attempt.
func (r *Recorder) Import(ctx context.Context, outcome string, problems int) {
	r.sentry.RecordImport(ctx, outcome, problems)
	if r.cloudwatch != nil {
		r.cloudwatch.RecordLibraryOperation("import", outcome)
	}
	r.inc("import." + outcome)
}

// Counters returns a copy of the in-process counters.
func (r *Recorder) Counters() map[string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// CounterNames returns the counter names in sorted order.
func (r *Recorder) CounterNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.counters))
	for k := range r.counters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *Recorder) inc(name string) {
	r.mu.Lock()
	r.counters[name]++
	r.mu.Unlock()
}
