package metrics

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

func TestHistogram_Observe(t *testing.T) {
	t.Run("Records cumulative counts per bucket", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		h.Observe(0.1, "my-operation")
		h.Observe(0.3, "my-operation")

		series := h.series[seriesKey([]string{"my-operation"})]
		assert.NotNil(t, series)
		assert.Equal(t, []uint64{0, 0, 0, 0, 1, 1, 2, 2, 2, 2, 2}, series.bucketCounts)
		assert.Equal(t, uint64(2), series.count)
		assert.InDelta(t, 0.4, series.sum, 1e-9)
	})

	t.Run("Includes values equal to a bound in that bucket", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		h.Observe(0.25, "my-operation")

		series := h.series[seriesKey([]string{"my-operation"})]
		assert.Equal(t, []uint64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}, series.bucketCounts)
	})

	t.Run("Counts values above the largest bound only in the total", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		h.Observe(12, "my-operation")

		series := h.series[seriesKey([]string{"my-operation"})]
		assert.Equal(t, make([]uint64, len(testBounds)), series.bucketCounts)
		assert.Equal(t, uint64(1), series.count)
	})

	t.Run("Keeps bucket counts monotonically non-decreasing", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		for _, value := range []float64{0.001, 0.005, 0.02, 0.3, 0.9, 4, 25} {
			h.Observe(value, "my-operation")
		}

		series := h.series[seriesKey([]string{"my-operation"})]
		for i := 1; i < len(series.bucketCounts); i++ {
			assert.LessOrEqual(t, series.bucketCounts[i-1], series.bucketCounts[i])
		}
		assert.LessOrEqual(t, series.bucketCounts[len(series.bucketCounts)-1], series.count)
	})

	t.Run("Tracks series per label set independently", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		h.Observe(0.1, "first")
		h.Observe(0.1, "second")
		h.Observe(0.1, "second")

		assert.Equal(t, uint64(1), h.series[seriesKey([]string{"first"})].count)
		assert.Equal(t, uint64(2), h.series[seriesKey([]string{"second"})].count)
	})

	t.Run("Panics when the label arity does not match", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, testBounds)
		assert.Panics(t, func() {
			h.Observe(0.1, "my-operation", "extra")
		})
	})
}

func TestNewHistogram(t *testing.T) {
	t.Run("Panics on non-ascending bucket bounds", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHistogram("operations", "Test histogram", []string{"name"}, []float64{0.5, 0.1})
		})
	})

	t.Run("Panics on non-finite bucket bounds", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHistogram("operations", "Test histogram", []string{"name"}, []float64{0.5, math.Inf(1)})
		})
	})
}

func TestHistogram_writeData(t *testing.T) {
	t.Run("Renders buckets in declared order with exact bound formatting", func(t *testing.T) {
		h := NewHistogram("request_latency", "Test histogram", []string{"endpoint", "error"}, testBounds)
		h.Observe(0.1, "HTTP-GET-/foo", "false")

		var sb strings.Builder
		h.writeData(&sb)
		expected := strings.Join([]string{
			`request_latency_bucket{le="0.005",endpoint="HTTP-GET-/foo",error="false"} 0`,
			`request_latency_bucket{le="0.01",endpoint="HTTP-GET-/foo",error="false"} 0`,
			`request_latency_bucket{le="0.025",endpoint="HTTP-GET-/foo",error="false"} 0`,
			`request_latency_bucket{le="0.05",endpoint="HTTP-GET-/foo",error="false"} 0`,
			`request_latency_bucket{le="0.1",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="0.25",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="0.5",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="1",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="2.5",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="5",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="10",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_bucket{le="+Inf",endpoint="HTTP-GET-/foo",error="false"} 1`,
			`request_latency_sum{endpoint="HTTP-GET-/foo",error="false"} 0.1`,
			`request_latency_count{endpoint="HTTP-GET-/foo",error="false"} 1`,
		}, "\n") + "\n"
		assert.Equal(t, expected, sb.String())
	})

	t.Run("Renders label sets in first-seen order", func(t *testing.T) {
		h := NewHistogram("operations", "Test histogram", []string{"name"}, []float64{1})
		h.Observe(0.5, "second-created-later")
		h.Observe(0.5, "first")
		h.Observe(0.5, "second-created-later")

		var sb strings.Builder
		h.writeData(&sb)
		expected := strings.Join([]string{
			`operations_bucket{le="1",name="second-created-later"} 2`,
			`operations_bucket{le="+Inf",name="second-created-later"} 2`,
			`operations_sum{name="second-created-later"} 1`,
			`operations_count{name="second-created-later"} 2`,
			`operations_bucket{le="1",name="first"} 1`,
			`operations_bucket{le="+Inf",name="first"} 1`,
			`operations_sum{name="first"} 0.5`,
			`operations_count{name="first"} 1`,
		}, "\n") + "\n"
		assert.Equal(t, expected, sb.String())
	})
}
