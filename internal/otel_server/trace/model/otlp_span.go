package model

import (
	"time"

	spanModel "github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
	protoCommon "go.opentelemetry.io/proto/otlp/common/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
)

// OTLPSpan adapts one span from the OTLP wire format to the read-only view
// the reporter consumes. Attribute keys are canonicalized, the wire span
// kind becomes the span-kind tag, and an error status becomes the error tag.
type OTLPSpan struct {
	operationName string
	duration      time.Duration
	tags          map[string]spanModel.TagValue
	context       OTLPSpanContext
}

type OTLPSpanContext struct {
	serviceName string
}

func NewOTLPSpan(span *v1.Span, serviceName string) OTLPSpan {
	startTime := time.Unix(0, int64(span.StartTimeUnixNano))
	endTime := time.Unix(0, int64(span.EndTimeUnixNano))
	return OTLPSpan{
		operationName: span.Name,
		duration:      endTime.Sub(startTime),
		tags:          getTags(span),
		context:       OTLPSpanContext{serviceName: serviceName},
	}
}

func (s OTLPSpan) OperationName() string { return s.operationName }

func (s OTLPSpan) Duration() time.Duration { return s.duration }

func (s OTLPSpan) Tag(key string) (spanModel.TagValue, bool) {
	value, ok := s.tags[key]
	return value, ok
}

func (s OTLPSpan) Context() spanModel.SpanContext { return s.context }

func (c OTLPSpanContext) ParentServiceKey() (string, bool) {
	if c.serviceName == "" {
		return "", false
	}
	return c.serviceName, true
}

func getTags(span *v1.Span) map[string]spanModel.TagValue {
	tags := make(map[string]spanModel.TagValue)
	for _, attribute := range span.Attributes {
		value, ok := getTagValue(attribute.Value)
		if !ok {
			continue
		}
		tags[spanModel.CanonicalTagKey(attribute.Key)] = value
	}
	if kind, ok := getSpanKind(span); ok {
		tags[spanModel.TagSpanKind] = spanModel.StringTag(kind)
	}
	if span.Status != nil && span.Status.Code == v1.Status_STATUS_CODE_ERROR {
		tags[spanModel.TagError] = spanModel.BoolTag(true)
	}
	return tags
}

func getTagValue(value *protoCommon.AnyValue) (spanModel.TagValue, bool) {
	if value == nil {
		return spanModel.TagValue{}, false
	}
	switch typedValue := value.Value.(type) {
	case *protoCommon.AnyValue_StringValue:
		return spanModel.StringTag(typedValue.StringValue), true
	case *protoCommon.AnyValue_BoolValue:
		return spanModel.BoolTag(typedValue.BoolValue), true
	case *protoCommon.AnyValue_IntValue:
		return spanModel.NumberTag(float64(typedValue.IntValue)), true
	case *protoCommon.AnyValue_DoubleValue:
		return spanModel.NumberTag(typedValue.DoubleValue), true
	default:
		return spanModel.TagValue{}, false
	}
}

func getSpanKind(span *v1.Span) (string, bool) {
	switch span.Kind {
	case v1.Span_SPAN_KIND_SERVER:
		return spanModel.SpanKindServer, true
	case v1.Span_SPAN_KIND_CLIENT:
		return "client", true
	case v1.Span_SPAN_KIND_PRODUCER:
		return "producer", true
	case v1.Span_SPAN_KIND_CONSUMER:
		return "consumer", true
	case v1.Span_SPAN_KIND_INTERNAL:
		return "internal", true
	default:
		return "", false
	}
}
