package reporter

import (
	"fmt"
	"strconv"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/metrics"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/naming"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
	"go.uber.org/zap"
)

const (
	operationsMetric     = "operations"
	requestsMetric       = "requests"
	requestLatencyMetric = "request_latency"
	httpRequestsMetric   = "http_requests"
)

const (
	operationsHelp     = "Duration of completed operations in seconds"
	requestsHelp       = "Total number of completed HTTP requests"
	requestLatencyHelp = "Duration of completed HTTP requests in seconds"
	httpRequestsHelp   = "Total number of completed HTTP requests by status code class"
)

// LatencyBuckets is the fixed set of histogram bucket upper bounds, in
// seconds, used for both operation durations and HTTP request latencies.
var LatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Config carries the reporter's construction-time settings. The zero value
// reports every span with unprefixed metric names.
type Config struct {
	// IgnoreTags maps tag keys to regular expression patterns. A span is
	// dropped when any entry's pattern matches a substring of the value the
	// span carries under that tag key.
	IgnoreTags map[string]string
	// Namespace, when non-empty, prefixes every metric name as
	// "namespace:name" after sanitization.
	Namespace string
	// EndpointNamer overrides how HTTP server spans map to endpoint labels.
	// Nil selects naming.DirectNamer.
	EndpointNamer naming.EndpointNamer
}

// Reporter converts finished spans into metric recordings and exposes the
// accumulated state as text.
type Reporter interface {
	ReportFinish(span model.Span) error
	Metrics() string
}

type ReporterImpl struct {
	registry           *metrics.Registry
	rules              []ignoreRule
	endpointNamer      naming.EndpointNamer
	logger             *zap.Logger
	operations         *metrics.Histogram
	requestsName       string
	requestLatencyName string
	httpRequestsName   string
}

// NewReporterImpl compiles the configured ignore rules and eagerly registers
// the operations histogram, so its header block is rendered before any span
// is reported. The remaining metrics are created on first qualifying span.
func NewReporterImpl(registry *metrics.Registry, config Config, logger *zap.Logger) (*ReporterImpl, error) {
	rules, err := compileIgnoreRules(config.IgnoreTags)
	if err != nil {
		return nil, err
	}
	endpointNamer := config.EndpointNamer
	if endpointNamer == nil {
		endpointNamer = naming.DirectNamer{}
	}

	r := &ReporterImpl{
		registry:           registry,
		rules:              rules,
		endpointNamer:      endpointNamer,
		logger:             logger,
		requestsName:       naming.MetricName(requestsMetric, config.Namespace),
		requestLatencyName: naming.MetricName(requestLatencyMetric, config.Namespace),
		httpRequestsName:   naming.MetricName(httpRequestsMetric, config.Namespace),
	}
	operationsName := naming.MetricName(operationsMetric, config.Namespace)
	r.operations = metrics.GetOrCreate(registry, operationsName, func() *metrics.Histogram {
		return metrics.NewHistogram(operationsName, operationsHelp, []string{"name"}, LatencyBuckets)
	})
	return r, nil
}

// ReportFinish records the metrics derived from one finished span. Spans
// matching an ignore rule are dropped with no effect on any metric. A
// malformed HTTP-URL tag surfaces as an error wrapping naming.ErrInvalidURL,
// again with no metric touched for that span. Passing a nil span is a
// programming error and panics.
func (r *ReporterImpl) ReportFinish(span model.Span) error {
	if span == nil {
		panic("ReportFinish called with a nil span")
	}
	if matchesAnyRule(r.rules, span) {
		r.logger.Debug("Span ignored by tag filter", zap.String("operation", span.OperationName()))
		return nil
	}
	if !IsHTTPServerSpan(span) {
		r.operations.Observe(span.Duration().Seconds(), span.OperationName())
		return nil
	}
	return r.reportHTTPServerSpan(span)
}

func (r *ReporterImpl) reportHTTPServerSpan(span model.Span) error {
	endpoint, err := r.endpointNamer.EndpointName(span)
	if err != nil {
		return fmt.Errorf("error deriving endpoint name for span %s: %w", span.OperationName(), err)
	}
	errorValue := ErrorValue(span)

	requests := metrics.GetOrCreate(r.registry, r.requestsName, func() *metrics.Counter {
		return metrics.NewCounter(r.requestsName, requestsHelp, []string{"endpoint", "error"})
	})
	requests.Inc(endpoint, errorValue)

	latency := metrics.GetOrCreate(r.registry, r.requestLatencyName, func() *metrics.Histogram {
		return metrics.NewHistogram(r.requestLatencyName, requestLatencyHelp, []string{"endpoint", "error"}, LatencyBuckets)
	})
	latency.Observe(span.Duration().Seconds(), endpoint, errorValue)

	if class, ok := statusCodeClass(span); ok {
		httpRequests := metrics.GetOrCreate(r.registry, r.httpRequestsName, func() *metrics.Counter {
			return metrics.NewCounter(r.httpRequestsName, httpRequestsHelp, []string{"endpoint", "status_code"})
		})
		httpRequests.Inc(endpoint, class)
	}
	return nil
}

// Metrics renders the current state of every registered metric in the text
// exposition format.
func (r *ReporterImpl) Metrics() string {
	return r.registry.Render()
}

// statusCodeClass buckets the span's HTTP status code tag into a class label
// such as "2xx". Tags that do not parse as integers, and codes whose
// hundreds digit falls outside [2,5], report false.
func statusCodeClass(span model.Span) (string, bool) {
	value, ok := span.Tag(model.TagHTTPStatusCode)
	if !ok {
		return "", false
	}
	var code int
	switch value.Kind {
	case model.TagKindNumber:
		code = int(value.Num)
	case model.TagKindString:
		parsed, err := strconv.Atoi(value.Str)
		if err != nil {
			return "", false
		}
		code = parsed
	default:
		return "", false
	}
	hundreds := code / 100
	if hundreds < 2 || hundreds > 5 {
		return "", false
	}
	return strconv.Itoa(hundreds) + "xx", true
}
