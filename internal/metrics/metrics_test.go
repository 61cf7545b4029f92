package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIncrement(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests", map[string]string{"method": "GET"}, "test counter")
	r.IncrementCounter("requests", map[string]string{"method": "GET"}, "test counter")
	r.IncrementCounter("requests", map[string]string{"method": "POST"}, "test counter")

	snapshot := r.Snapshot()
	counters := snapshot["counters"].([]*Metric)
	require.Len(t, counters, 2)

	values := map[string]float64{}
	for _, c := range counters {
		values[c.Labels["method"]] = c.Value
	}
	assert.Equal(t, float64(2), values["GET"])
	assert.Equal(t, float64(1), values["POST"])
}

func TestAddToCounter(t *testing.T) {
	r := NewRegistry()

	r.AddToCounter("bytes", 100, nil, "")
	r.AddToCounter("bytes", 50, nil, "")

	counters := r.Snapshot()["counters"].([]*Metric)
	require.Len(t, counters, 1)
	assert.Equal(t, float64(150), counters[0].Value)
}

func TestTimerAggregation(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("op", 10*time.Millisecond, nil)
	r.RecordTimer("op", 30*time.Millisecond, nil)
	r.RecordTimer("op", 20*time.Millisecond, nil)

	timers := r.Snapshot()["timers"].([]*TimerMetric)
	require.Len(t, timers, 1)

	timer := timers[0]
	assert.Equal(t, int64(3), timer.Count)
	assert.InDelta(t, 10, timer.Min, 1)
	assert.InDelta(t, 30, timer.Max, 1)
	assert.InDelta(t, 20, timer.Average, 1)
}

func TestSnapshotIncludesUptime(t *testing.T) {
	r := NewRegistry()
	snapshot := r.Snapshot()
	assert.Contains(t, snapshot, "uptime_seconds")
	assert.GreaterOrEqual(t, snapshot["uptime_seconds"].(float64), float64(0))
}

func TestMetricKeyLabelOrderStable(t *testing.T) {
	a := metricKey("m", map[string]string{"x": "1", "y": "2"})
	b := metricKey("m", map[string]string{"y": "2", "x": "1"})
	assert.Equal(t, a, b)
}

func TestGlobalRegistryHelpers(t *testing.T) {
	IncrementCounter("global_test_counter", nil, "")
	RecordTimer("global_test_timer", time.Millisecond, nil)

	snapshot := GetRegistry().Snapshot()
	assert.Contains(t, snapshot, "counters")
	assert.Contains(t, snapshot, "timers")
}
