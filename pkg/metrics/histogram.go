package metrics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Histogram records the distribution of observed values in fixed upper-bound
// buckets, one series per unique label-value combination. Bucket counts are
// cumulative: the count stored for a bound is the number of observations less
// than or equal to it, and the implicit +Inf bucket equals the series count.
type Histogram struct {
	name      string
	help      string
	labelKeys []string
	bounds    []float64

	mu     sync.Mutex
	series map[string]*histogramSeries
	order  []string
}

type histogramSeries struct {
	labelValues  []string
	bucketCounts []uint64
	sum          float64
	count        uint64
}

// NewHistogram creates a histogram over the given ascending finite bucket
// bounds. An implicit +Inf bucket is always rendered after them. Non-finite
// or out-of-order bounds are a programming error and panic.
func NewHistogram(name string, help string, labelKeys []string, bounds []float64) *Histogram {
	for i, bound := range bounds {
		if math.IsInf(bound, 0) || math.IsNaN(bound) {
			panic(fmt.Sprintf("histogram %s bucket bound %v is not finite", name, bound))
		}
		if i > 0 && bound <= bounds[i-1] {
			panic(fmt.Sprintf("histogram %s bucket bounds are not ascending at %v", name, bound))
		}
	}
	return &Histogram{
		name:      name,
		help:      help,
		labelKeys: append([]string(nil), labelKeys...),
		bounds:    append([]float64(nil), bounds...),
		series:    make(map[string]*histogramSeries),
	}
}

func (h *Histogram) Name() string { return h.name }

func (h *Histogram) Help() string { return h.help }

func (h *Histogram) kind() string { return "histogram" }

// Observe records value into the series identified by labelValues, which must
// match the histogram's declared label keys positionally.
func (h *Histogram) Observe(value float64, labelValues ...string) {
	if len(labelValues) != len(h.labelKeys) {
		panic(fmt.Sprintf(
			"histogram %s expects %d label values, got %d",
			h.name, len(h.labelKeys), len(labelValues),
		))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	series := h.seriesFor(labelValues)
	for i, bound := range h.bounds {
		if value <= bound {
			series.bucketCounts[i]++
		}
	}
	series.sum += value
	series.count++
}

func (h *Histogram) seriesFor(labelValues []string) *histogramSeries {
	key := seriesKey(labelValues)
	if series, ok := h.series[key]; ok {
		return series
	}
	series := &histogramSeries{
		labelValues:  append([]string(nil), labelValues...),
		bucketCounts: make([]uint64, len(h.bounds)),
	}
	h.series[key] = series
	h.order = append(h.order, key)
	return series
}

func (h *Histogram) writeData(sb *strings.Builder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range h.order {
		series := h.series[key]
		labels := renderLabels(h.labelKeys, series.labelValues)
		for i, bound := range h.bounds {
			h.writeBucketLine(sb, formatFloat(bound), labels, series.bucketCounts[i])
		}
		h.writeBucketLine(sb, "+Inf", labels, series.count)
		sb.WriteString(h.name)
		sb.WriteString("_sum")
		sb.WriteString(wrapLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(formatFloat(series.sum))
		sb.WriteString("\n")
		sb.WriteString(h.name)
		sb.WriteString("_count")
		sb.WriteString(wrapLabels(labels))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(series.count, 10))
		sb.WriteString("\n")
	}
}

func (h *Histogram) writeBucketLine(sb *strings.Builder, bound string, labels string, count uint64) {
	sb.WriteString(h.name)
	sb.WriteString(`_bucket{le="`)
	sb.WriteString(bound)
	sb.WriteString(`"`)
	if labels != "" {
		sb.WriteString(",")
		sb.WriteString(labels)
	}
	sb.WriteString("} ")
	sb.WriteString(strconv.FormatUint(count, 10))
	sb.WriteString("\n")
}
