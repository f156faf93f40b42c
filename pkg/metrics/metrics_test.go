package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector("metrics_test.csv")

	c.ChunkLoaded(128, 4, 5*time.Millisecond)
	c.ChunkLoaded(64, 2, time.Millisecond)
	c.RecordRejected()
	c.ConversionFailed(3)
	c.ConversionFailed(0)
	c.RecordsStored("json", 6)

	assert.Equal(t, 2.0, testutil.ToFloat64(ChunksLoaded.WithLabelValues("metrics_test.csv")))
	assert.Equal(t, 192.0, testutil.ToFloat64(BytesRead.WithLabelValues("metrics_test.csv")))
	assert.Equal(t, 6.0, testutil.ToFloat64(RecordsLoaded.WithLabelValues("metrics_test.csv")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RecordsRejected.WithLabelValues("metrics_test.csv")))
	assert.Equal(t, 3.0, testutil.ToFloat64(ConversionFailures.WithLabelValues("metrics_test.csv")))
	assert.Equal(t, 6.0, testutil.ToFloat64(RecordsWritten.WithLabelValues("metrics_test.csv", "json")))
}

func TestSnapshot(t *testing.T) {
	NewCollector("snapshot.csv").ChunkLoaded(10, 1, time.Millisecond)

	samples, err := Snapshot()
	require.NoError(t, err)

	var found bool
	for _, s := range samples {
		assert.Contains(t, s.Name, "tabula_")
		if s.Name == "tabula_chunks_loaded_total" && s.Labels["source"] == "snapshot.csv" {
			found = true
			assert.Equal(t, 1.0, s.Value)
		}
	}
	assert.True(t, found)
}

func TestTimer(t *testing.T) {
	timer := NewTimer("op")
	assert.Equal(t, "op", timer.Name())
	first := timer.Stop()
	assert.GreaterOrEqual(t, timer.Stop(), first)
}
