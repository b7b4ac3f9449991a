package reporter

import (
	"math"
	"strconv"
	"strings"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
)

// IsHTTPServerSpan reports whether span represents an inbound HTTP server
// request: its span-kind tag is the string "server" and at least one HTTP
// tag (url, method or status code) is present.
func IsHTTPServerSpan(span model.Span) bool {
	kind, ok := span.Tag(model.TagSpanKind)
	if !ok || kind.Kind != model.TagKindString || kind.Str != model.SpanKindServer {
		return false
	}
	for _, key := range []string{model.TagHTTPURL, model.TagHTTPMethod, model.TagHTTPStatusCode} {
		if _, ok := span.Tag(key); ok {
			return true
		}
	}
	return false
}

// ErrorValue reduces the span's error tag to the label value "true" or
// "false". A string tag counts as an error only when it case-insensitively
// equals "true"; other variants count by their truthiness.
func ErrorValue(span model.Span) string {
	value, ok := span.Tag(model.TagError)
	if !ok {
		return "false"
	}
	switch value.Kind {
	case model.TagKindString:
		return strconv.FormatBool(strings.EqualFold(value.Str, "true"))
	case model.TagKindNumber:
		return strconv.FormatBool(value.Num != 0 && !math.IsNaN(value.Num))
	default:
		return strconv.FormatBool(value.Bool)
	}
}

// ParentService returns the span context's parent-service key, or the
// "unknown" sentinel when the context carries none. The recording paths do
// not currently attach it to any metric label.
func ParentService(span model.Span) string {
	if key, ok := span.Context().ParentServiceKey(); ok {
		return key
	}
	return model.UnknownParentService
}
