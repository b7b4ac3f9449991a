package metrics

import (
	"fmt"
	"strings"
	"sync"
)

// Registry owns at most one Metric per name and renders all of them in
// registration order. It lives for the lifetime of the reporter that created
// it; nothing is persisted.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		metrics: make(map[string]Metric),
	}
}

// GetOrCreate returns the metric registered under name, invoking factory to
// construct and register one on first use. Repeated calls for the same name
// return the same instance and never reset accumulated data.
func (r *Registry) GetOrCreate(name string, factory func() Metric) Metric {
	r.mu.RLock()
	metric, ok := r.metrics[name]
	r.mu.RUnlock()
	if ok {
		return metric
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if metric, ok := r.metrics[name]; ok {
		return metric
	}
	metric = factory()
	r.metrics[name] = metric
	r.order = append(r.order, name)
	return metric
}

// GetOrCreate returns the metric registered under name as its concrete type,
// creating it with factory on first use. Requesting a name that is already
// registered as a different metric type is a programming error and panics.
func GetOrCreate[M Metric](r *Registry, name string, factory func() M) M {
	metric := r.GetOrCreate(name, func() Metric { return factory() })
	typed, ok := metric.(M)
	if !ok {
		panic(fmt.Sprintf("metric %s is already registered as %T", name, metric))
	}
	return typed
}

// Render produces the full text exposition. Each metric block starts with its
// HELP and TYPE lines followed by its data lines; blocks after the first are
// preceded by exactly one blank line. A metric with no recorded series still
// renders its header block.
func (r *Registry) Render() string {
	r.mu.RLock()
	ordered := make([]Metric, 0, len(r.order))
	for _, name := range r.order {
		ordered = append(ordered, r.metrics[name])
	}
	r.mu.RUnlock()

	var sb strings.Builder
	for i, metric := range ordered {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("# HELP ")
		sb.WriteString(metric.Name())
		sb.WriteString(" ")
		sb.WriteString(metric.Help())
		sb.WriteString("\n")
		sb.WriteString("# TYPE ")
		sb.WriteString(metric.Name())
		sb.WriteString(" ")
		sb.WriteString(metric.kind())
		sb.WriteString("\n")
		metric.writeData(&sb)
	}
	return sb.String()
}
