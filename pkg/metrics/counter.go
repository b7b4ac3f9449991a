package metrics

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Counter records a monotonically increasing total per unique label-value
// combination.
type Counter struct {
	name      string
	help      string
	labelKeys []string

	mu     sync.Mutex
	series map[string]*counterSeries
	order  []string
}

type counterSeries struct {
	labelValues []string
	value       uint64
}

func NewCounter(name string, help string, labelKeys []string) *Counter {
	return &Counter{
		name:      name,
		help:      help,
		labelKeys: append([]string(nil), labelKeys...),
		series:    make(map[string]*counterSeries),
	}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Help() string { return c.help }

func (c *Counter) kind() string { return "counter" }

// Inc increments by one the series identified by labelValues, which must
// match the counter's declared label keys positionally.
func (c *Counter) Inc(labelValues ...string) {
	if len(labelValues) != len(c.labelKeys) {
		panic(fmt.Sprintf(
			"counter %s expects %d label values, got %d",
			c.name, len(c.labelKeys), len(labelValues),
		))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := seriesKey(labelValues)
	series, ok := c.series[key]
	if !ok {
		series = &counterSeries{labelValues: append([]string(nil), labelValues...)}
		c.series[key] = series
		c.order = append(c.order, key)
	}
	series.value++
}

func (c *Counter) writeData(sb *strings.Builder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range c.order {
		series := c.series[key]
		sb.WriteString(c.name)
		sb.WriteString(wrapLabels(renderLabels(c.labelKeys, series.labelValues)))
		sb.WriteString(" ")
		sb.WriteString(strconv.FormatUint(series.value, 10))
		sb.WriteString("\n")
	}
}
