package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDisabledOutsideProduction(t *testing.T) {
	client, err := NewClient(context.Background(), "development")
	require.NoError(t, err)
	assert.False(t, client.Enabled())

	// Disabled clients are no-ops.
	client.RecordAPIRequest("/health", 200, time.Millisecond)
	client.RecordGeneration("4/4", 8, time.Millisecond, true)
	client.RecordLibraryOperation("save", OutcomeOK)
}

func TestRecorderCounters(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, "test")
	require.NoError(t, err)
	r := NewRecorder(client)

	r.APIRequest(ctx, "/api/v1/library", 200, time.Millisecond)
	r.Generation(ctx, "C", "4/4", 8, time.Millisecond, true)
	r.Generation(ctx, "H", "4/4", 8, time.Millisecond, false)
	r.LibraryOperation(ctx, "save", OutcomeOK)
	r.LibraryOperation(ctx, "save", OutcomeDuplicate)
	r.LibraryOperation(ctx, "save", OutcomeDuplicate)
	r.Import(ctx, OutcomeInvalid, 3)

	assert.Equal(t, map[string]int64{
		"requests":         1,
		"generate.ok":      1,
		"generate.invalid": 1,
		"save.ok":          1,
		"save.duplicate":   2,
		"import.invalid":   1,
	}, r.Counters())

	assert.Equal(t, []string{
		"generate.invalid", "generate.ok", "import.invalid", "requests", "save.duplicate", "save.ok",
	}, r.CounterNames())
}

func TestRecorderWithoutCloudWatch(t *testing.T) {
	r := NewRecorder(nil)
	r.LibraryOperation(context.Background(), "delete", OutcomeNotFound)
	assert.Equal(t, int64(1), r.Counters()["delete.not_found"])
}
