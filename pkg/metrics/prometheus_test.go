package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordAttempt("yahoo", "error")
	r.RecordAttempt("yahoo", "error")
	r.RecordAttempt("yahoo", "ok")
	r.RecordExhausted("not_found")
	r.RecordLookup("single", "ok")
	r.RecordLastPrice("AAPL", 185.92)
	r.RecordEventDropped("kafka")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.attempts.WithLabelValues("yahoo", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.attempts.WithLabelValues("yahoo", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.exhausted.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lookups.WithLabelValues("single", "ok")))
	assert.Equal(t, 185.92, testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.eventsDropped.WithLabelValues("kafka")))
}

func TestRecorder_HistogramsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegistry(reg)

	r.RecordBackoff(0.5)
	r.RecordLatency("price", 0.01)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["marketengine_retry_backoff_seconds"])
	assert.True(t, names["marketengine_operation_duration_seconds"])
}
