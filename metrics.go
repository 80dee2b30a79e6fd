package colblock

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting page serialization
// metrics. Implement this interface to integrate with monitoring systems;
// the promstats package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordSerialize is called after each page serialization.
	// uncompressed and stored are payload sizes in bytes, err is nil if
	// successful.
	RecordSerialize(positions, uncompressed, stored int, duration time.Duration, err error)

	// RecordDeserialize is called after each page deserialization.
	RecordDeserialize(positions, stored int, duration time.Duration, err error)

	// RecordChecksumFailure is called when a payload fails verification.
	RecordChecksumFailure()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSerialize(int, int, int, time.Duration, error) {}

func (NoopMetricsCollector) RecordDeserialize(int, int, time.Duration, error) {}

func (NoopMetricsCollector) RecordChecksumFailure() {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SerializeCount        atomic.Int64
	SerializeErrors       atomic.Int64
	SerializeTotalNanos   atomic.Int64
	PositionsSerialized   atomic.Int64
	UncompressedBytes     atomic.Int64
	StoredBytes           atomic.Int64
	DeserializeCount      atomic.Int64
	DeserializeErrors     atomic.Int64
	DeserializeTotalNanos atomic.Int64
	ChecksumFailures      atomic.Int64
}

// RecordSerialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSerialize(positions, uncompressed, stored int, duration time.Duration, err error) {
	b.SerializeCount.Add(1)
	b.SerializeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SerializeErrors.Add(1)
		return
	}
	b.PositionsSerialized.Add(int64(positions))
	b.UncompressedBytes.Add(int64(uncompressed))
	b.StoredBytes.Add(int64(stored))
}

// RecordDeserialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeserialize(_, _ int, duration time.Duration, err error) {
	b.DeserializeCount.Add(1)
	b.DeserializeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DeserializeErrors.Add(1)
	}
}

// RecordChecksumFailure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChecksumFailure() {
	b.ChecksumFailures.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SerializeCount:      b.SerializeCount.Load(),
		SerializeErrors:     b.SerializeErrors.Load(),
		SerializeAvgNanos:   avg(b.SerializeTotalNanos.Load(), b.SerializeCount.Load()),
		PositionsSerialized: b.PositionsSerialized.Load(),
		CompressionRatio:    ratio(b.StoredBytes.Load(), b.UncompressedBytes.Load()),
		DeserializeCount:    b.DeserializeCount.Load(),
		DeserializeErrors:   b.DeserializeErrors.Load(),
		DeserializeAvgNanos: avg(b.DeserializeTotalNanos.Load(), b.DeserializeCount.Load()),
		ChecksumFailures:    b.ChecksumFailures.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

func ratio(stored, uncompressed int64) float64 {
	if uncompressed == 0 {
		return 0
	}
	return float64(stored) / float64(uncompressed)
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SerializeCount      int64
	SerializeErrors     int64
	SerializeAvgNanos   int64
	PositionsSerialized int64
	CompressionRatio    float64 // stored / uncompressed bytes
	DeserializeCount    int64
	DeserializeErrors   int64
	DeserializeAvgNanos int64
	ChecksumFailures    int64
}
