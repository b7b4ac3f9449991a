package exporter

import (
	"time"

	spanModel "github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// sdkSpan adapts a finished SDK span to the read-only view the reporter
// consumes, mirroring the translation the OTLP server applies to wire spans.
type sdkSpan struct {
	span sdktrace.ReadOnlySpan
	tags map[string]spanModel.TagValue
}

func newSDKSpan(span sdktrace.ReadOnlySpan) sdkSpan {
	tags := make(map[string]spanModel.TagValue)
	for _, attr := range span.Attributes() {
		value, ok := tagValueFromAttribute(attr.Value)
		if !ok {
			continue
		}
		tags[spanModel.CanonicalTagKey(string(attr.Key))] = value
	}
	if kind, ok := tagFromSpanKind(span.SpanKind()); ok {
		tags[spanModel.TagSpanKind] = spanModel.StringTag(kind)
	}
	if span.Status().Code == codes.Error {
		tags[spanModel.TagError] = spanModel.BoolTag(true)
	}
	return sdkSpan{span: span, tags: tags}
}

func (s sdkSpan) OperationName() string { return s.span.Name() }

func (s sdkSpan) Duration() time.Duration {
	return s.span.EndTime().Sub(s.span.StartTime())
}

func (s sdkSpan) Tag(key string) (spanModel.TagValue, bool) {
	value, ok := s.tags[key]
	return value, ok
}

func (s sdkSpan) Context() spanModel.SpanContext {
	return sdkSpanContext{span: s.span}
}

type sdkSpanContext struct {
	span sdktrace.ReadOnlySpan
}

func (c sdkSpanContext) ParentServiceKey() (string, bool) {
	res := c.span.Resource()
	if res == nil {
		return "", false
	}
	for _, attr := range res.Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func tagValueFromAttribute(value attribute.Value) (spanModel.TagValue, bool) {
	switch value.Type() {
	case attribute.STRING:
		return spanModel.StringTag(value.AsString()), true
	case attribute.BOOL:
		return spanModel.BoolTag(value.AsBool()), true
	case attribute.INT64:
		return spanModel.NumberTag(float64(value.AsInt64())), true
	case attribute.FLOAT64:
		return spanModel.NumberTag(value.AsFloat64()), true
	default:
		return spanModel.TagValue{}, false
	}
}

func tagFromSpanKind(kind trace.SpanKind) (string, bool) {
	switch kind {
	case trace.SpanKindServer:
		return spanModel.SpanKindServer, true
	case trace.SpanKindClient:
		return "client", true
	case trace.SpanKindProducer:
		return "producer", true
	case trace.SpanKindConsumer:
		return "consumer", true
	case trace.SpanKindInternal:
		return "internal", true
	default:
		return "", false
	}
}
