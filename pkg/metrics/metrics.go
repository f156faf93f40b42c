// Package metrics tracks ingestion activity with Prometheus collectors.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("orders.csv")
//	timer := metrics.NewTimer("load_chunk")
//	// ... read and convert a chunk
//	collector.ChunkLoaded(len(data), rows, timer.Stop())
//
// All collectors register with the default Prometheus registry, so a
// process that serves /metrics picks them up without further wiring.
package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records metrics for one source. Each session creates its own.
type Collector struct {
	source string // source file label
}

// NewCollector creates a collector labelled with source.
func NewCollector(source string) *Collector {
	return &Collector{source: source}
}

// Source returns the label used for this collector
func (c *Collector) Source() string { return c.source }

// ChunkLoaded records one chunk of n bytes yielding records rows.
func (c *Collector) ChunkLoaded(n int, records int, d time.Duration) {
	ChunksLoaded.WithLabelValues(c.source).Inc()
	BytesRead.WithLabelValues(c.source).Add(float64(n))
	RecordsLoaded.WithLabelValues(c.source).Add(float64(records))
	LoadLatency.WithLabelValues(c.source).Observe(d.Seconds())
}

// RecordRejected counts a record dropped for a wrong field count.
func (c *Collector) RecordRejected() {
	RecordsRejected.WithLabelValues(c.source).Inc()
}

// ConversionFailed counts n cells left unset by tolerated conversion errors.
func (c *Collector) ConversionFailed(n int) {
	if n == 0 {
		return
	}
	ConversionFailures.WithLabelValues(c.source).Add(float64(n))
}

// RecordsStored counts rows written in format.
func (c *Collector) RecordsStored(format string, n int) {
	RecordsWritten.WithLabelValues(c.source, format).Add(float64(n))
}

var (
	// ChunksLoaded counts chunk reads per source.
	ChunksLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_chunks_loaded_total",
			Help: "Total number of chunks loaded",
		},
		[]string{"source"},
	)

	// BytesRead counts source bytes read.
	BytesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_bytes_read_total",
			Help: "Total number of source bytes read",
		},
		[]string{"source"},
	)

	// RecordsLoaded counts rows placed in a table.
	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_records_loaded_total",
			Help: "Total number of records loaded into tables",
		},
		[]string{"source"},
	)

	// RecordsRejected counts records dropped in ignore mode.
	RecordsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_records_rejected_total",
			Help: "Total number of records dropped for a wrong field count",
		},
		[]string{"source"},
	)

	// ConversionFailures counts cells left unset in ignore mode.
	ConversionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_conversion_failures_total",
			Help: "Total number of fields that could not be converted",
		},
		[]string{"source"},
	)

	// RecordsWritten counts rows serialized.
	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tabula_records_written_total",
			Help: "Total number of records written",
		},
		[]string{"source", "format"},
	)

	// LoadLatency tracks the time to read and convert one chunk.
	LoadLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tabula_chunk_load_seconds",
			Help:    "Time to read and convert one chunk",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"source"},
	)
)

// Sample is one metric value from Snapshot.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers the tabula counters from the default registry, sorted by
// name. Histograms report their sample count.
func Snapshot() ([]Sample, error) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		name := mf.GetName()
		if !strings.HasPrefix(name, "tabula_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				v = float64(m.GetHistogram().GetSampleCount())
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			}
			out = append(out, Sample{Name: name, Labels: labels, Value: v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Timer measures the duration of one operation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the operation name
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It may be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
