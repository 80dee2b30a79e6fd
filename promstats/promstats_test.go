package promstats_test

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/colblock"
	"github.com/hupe1980/colblock/page"
	"github.com/hupe1980/colblock/promstats"
	"github.com/hupe1980/colblock/testutil"
	"github.com/hupe1980/colblock/types"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "," + l.GetName() + "=" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				out[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return out
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := promstats.New("test")
	reg.MustRegister(c)

	p, err := page.New(testutil.MustBuild(t, types.Varchar, "a", "b", "c"))
	require.NoError(t, err)

	serde := colblock.NewPagesSerde(colblock.WithMetricsCollector(c))
	sp, err := serde.Serialize(t.Context(), p)
	require.NoError(t, err)
	_, err = serde.Deserialize(t.Context(), sp)
	require.NoError(t, err)

	sp.Payload = bytes.Clone(sp.Payload)
	sp.Payload[0] ^= 0xff
	_, err = serde.Deserialize(t.Context(), sp)
	require.Error(t, err)

	m := gather(t, reg)
	assert.Equal(t, 3.0, m["test_page_positions_serialized_total"])
	assert.Equal(t, 1.0, m["test_page_checksum_failures_total"])
	assert.Equal(t, 1.0, m["test_page_operation_latency_seconds,op=serialize,status=success"])
	assert.Equal(t, 1.0, m["test_page_operation_latency_seconds,op=deserialize,status=success"])
	assert.Equal(t, 1.0, m["test_page_operation_latency_seconds,op=deserialize,status=error"])
	assert.Equal(t, float64(sp.UncompressedSize), m["test_page_bytes_total,stage=uncompressed"])
}
