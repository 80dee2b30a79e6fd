// Package promstats exports page serialization metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c := promstats.New("exchange")
//	reg.MustRegister(c)
//	serde := colblock.NewPagesSerde(colblock.WithMetricsCollector(c))
package promstats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/colblock"
)

// Collector implements colblock.MetricsCollector and prometheus.Collector.
type Collector struct {
	latency          *prometheus.HistogramVec
	positions        prometheus.Counter
	bytes            *prometheus.CounterVec
	checksumFailures prometheus.Counter
}

var (
	_ colblock.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector      = (*Collector)(nil)
)

// New returns a collector whose metric names start with namespace.
func New(namespace string) *Collector {
	return &Collector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_operation_latency_seconds",
			Help:      "Latency of page serialization operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		positions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_positions_serialized_total",
			Help:      "Total positions serialized",
		}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_bytes_total",
			Help:      "Total payload bytes by stage",
		}, []string{"stage"}),
		checksumFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_checksum_failures_total",
			Help:      "Total pages that failed checksum verification",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordSerialize implements colblock.MetricsCollector.
func (c *Collector) RecordSerialize(positions, uncompressed, stored int, d time.Duration, err error) {
	c.latency.WithLabelValues("serialize", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.positions.Add(float64(positions))
	c.bytes.WithLabelValues("uncompressed").Add(float64(uncompressed))
	c.bytes.WithLabelValues("stored").Add(float64(stored))
}

// RecordDeserialize implements colblock.MetricsCollector.
func (c *Collector) RecordDeserialize(_, stored int, d time.Duration, err error) {
	c.latency.WithLabelValues("deserialize", status(err)).Observe(d.Seconds())
	if err == nil {
		c.bytes.WithLabelValues("read").Add(float64(stored))
	}
}

// RecordChecksumFailure implements colblock.MetricsCollector.
func (c *Collector) RecordChecksumFailure() {
	c.checksumFailures.Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.latency.Describe(ch)
	c.positions.Describe(ch)
	c.bytes.Describe(ch)
	c.checksumFailures.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.latency.Collect(ch)
	c.positions.Collect(ch)
	c.bytes.Collect(ch)
	c.checksumFailures.Collect(ch)
}
