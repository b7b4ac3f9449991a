package exporter

import (
	"context"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/reporter"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// SpanMetricsExporter feeds every span finished by an OpenTelemetry SDK
// tracer provider into the metrics reporter. Register it with the provider
// as a syncer or behind a batch processor; no spans leave the process
// through it. Spans the reporter refuses are logged and skipped so one bad
// span never fails its batch.
type SpanMetricsExporter struct {
	reporter reporter.Reporter
	logger   *zap.Logger
}

func NewSpanMetricsExporter(logger *zap.Logger, spanReporter reporter.Reporter) *SpanMetricsExporter {
	logger.Info("Creating new SpanMetricsExporter")
	return &SpanMetricsExporter{
		reporter: spanReporter,
		logger:   logger,
	}
}

func (e *SpanMetricsExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		if err := e.reporter.ReportFinish(newSDKSpan(span)); err != nil {
			e.logger.Error(
				"Failed to report span",
				zap.String("operation", span.Name()),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. The reporter keeps no buffers,
// so there is nothing to flush.
func (e *SpanMetricsExporter) Shutdown(ctx context.Context) error {
	return nil
}
