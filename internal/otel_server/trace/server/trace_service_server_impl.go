package server

import (
	"context"

	"github.com/casualjim/opentracing-metrics-tracer/internal/otel_server/trace/model"
	"github.com/casualjim/opentracing-metrics-tracer/pkg/reporter"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

// TraceServiceServerImpl terminates the OTLP trace export RPC and feeds
// every received span to the metrics reporter. Spans the reporter refuses
// are counted in the response's partial success rather than failing the
// whole export.
type TraceServiceServerImpl struct {
	protoTrace.UnimplementedTraceServiceServer
	reporter reporter.Reporter
	logger   *zap.Logger
}

func NewTraceServiceServerImpl(
	logger *zap.Logger,
	spanReporter reporter.Reporter,
) TraceServiceServerImpl {
	logger.Info("Creating new TraceServiceServerImpl")
	return TraceServiceServerImpl{
		logger:   logger,
		reporter: spanReporter,
	}
}

func (tss TraceServiceServerImpl) Export(
	ctx context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	var rejectedSpans int64
	var firstErr error
	for _, resourceSpan := range req.ResourceSpans {
		serviceName := getServiceName(resourceSpan)
		if serviceName == "" {
			tss.logger.Warn("Service name not found in resource span")
		}

		for _, scopeSpan := range resourceSpan.ScopeSpans {
			for _, span := range scopeSpan.Spans {
				typedSpan := model.NewOTLPSpan(span, serviceName)
				if err := tss.reporter.ReportFinish(typedSpan); err != nil {
					rejectedSpans++
					if firstErr == nil {
						firstErr = err
					}
					tss.logger.Error(
						"Failed to report span",
						zap.String("operation", span.Name),
						zap.Error(err),
					)
				}
			}
		}
	}

	response := &protoTrace.ExportTraceServiceResponse{}
	if rejectedSpans > 0 {
		response.PartialSuccess = &protoTrace.ExportTracePartialSuccess{
			RejectedSpans: rejectedSpans,
			ErrorMessage:  firstErr.Error(),
		}
	}
	return response, nil
}

func getServiceName(resourceSpan *v1.ResourceSpans) string {
	var serviceName string
	if resourceSpan.Resource == nil {
		return serviceName
	}
	for _, attr := range resourceSpan.Resource.Attributes {
		if attr.Key == "service.name" {
			serviceName = attr.Value.GetStringValue()
		}
	}
	return serviceName
}
