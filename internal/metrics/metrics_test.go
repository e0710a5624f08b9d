package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) *dto.Metric {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return &m
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.ResolveDuration)
	assert.NotNil(t, r.RendersTotal)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestRecordResolve(t *testing.T) {
	r := NewRegistry()
	r.RecordResolve(ResolveStats{Markers: 4, Unresolved: 2, LastPhase: "slack", ForcePasses: 50, DirectionPasses: 5, SlackPasses: 3}, time.Millisecond)
	r.RecordResolve(ResolveStats{Markers: 3, LastPhase: "none"}, time.Millisecond)

	assert.Equal(t, 7.0, value(t, r.MarkersTotal).Counter.GetValue())
	assert.Equal(t, 0.0, value(t, r.UnresolvedMarkers).Gauge.GetValue(), "gauge tracks the latest call")

	slack, err := r.ResolvesTotal.GetMetricWithLabelValues("slack")
	require.NoError(t, err)
	assert.Equal(t, 1.0, value(t, slack).Counter.GetValue())

	force, err := r.ResolvePasses.GetMetricWithLabelValues("force")
	require.NoError(t, err)
	assert.Equal(t, 50.0, value(t, force).Counter.GetValue())

	assert.Equal(t, uint64(2), value(t, r.ResolveDuration).Histogram.GetSampleCount())
}

func TestRecordRender(t *testing.T) {
	r := NewRegistry()
	r.RecordRender(2048, 10*time.Millisecond, nil)
	r.RecordRender(0, 0, errors.New("boom"))

	ok, _ := r.RendersTotal.GetMetricWithLabelValues("success")
	bad, _ := r.RendersTotal.GetMetricWithLabelValues("error")
	assert.Equal(t, 1.0, value(t, ok).Counter.GetValue())
	assert.Equal(t, 1.0, value(t, bad).Counter.GetValue())
	assert.Equal(t, 2048.0, value(t, r.SVGBytes).Gauge.GetValue())
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordResolve(ResolveStats{Markers: 5, LastPhase: "force"}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "marketmap.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "marketmap_markers_total 5")
	assert.Contains(t, string(data), `marketmap_resolves_total{phase="force"} 1`)

	assert.Error(t, r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
