package model

import (
	"strconv"
	"time"
)

// Standard tag keys read by the reporter. Sources that use other vocabularies
// (e.g. newer OpenTelemetry semantic conventions) are expected to translate
// their keys through CanonicalTagKey before exposing a span.
const (
	TagSpanKind       = "span.kind"
	TagHTTPURL        = "http.url"
	TagHTTPMethod     = "http.method"
	TagHTTPStatusCode = "http.status_code"
	TagError          = "error"
)

// SpanKindServer is the span-kind tag value marking an inbound RPC/HTTP
// server span.
const SpanKindServer = "server"

// UnknownParentService is returned when a span context carries no
// parent-service key.
const UnknownParentService = "unknown"

// TagKind discriminates the variants of TagValue.
type TagKind int

const (
	TagKindString TagKind = iota
	TagKindNumber
	TagKindBool
)

// TagValue is the tagged union of span tag values. Exactly one of Str, Num
// and Bool is meaningful, selected by Kind; consumers switch on Kind rather
// than coercing.
type TagValue struct {
	Kind TagKind
	Str  string
	Num  float64
	Bool bool
}

func StringTag(s string) TagValue {
	return TagValue{Kind: TagKindString, Str: s}
}

func NumberTag(n float64) TagValue {
	return TagValue{Kind: TagKindNumber, Num: n}
}

func BoolTag(b bool) TagValue {
	return TagValue{Kind: TagKindBool, Bool: b}
}

// String renders the value the way it participates in label values and
// ignore-rule matching.
func (v TagValue) String() string {
	switch v.Kind {
	case TagKindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case TagKindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Span is the read-only view of a finished span the engine consumes. The
// span's lifecycle is owned entirely by the producing tracer; the engine
// never mutates it.
type Span interface {
	OperationName() string
	Duration() time.Duration
	// Tag returns the value recorded under key, reporting presence
	// explicitly so that absent and zero-valued tags stay distinguishable.
	Tag(key string) (TagValue, bool)
	Context() SpanContext
}

// SpanContext exposes the slice of span-context state the engine reads.
type SpanContext interface {
	ParentServiceKey() (string, bool)
}

// CanonicalTagKey maps well-known attribute-name aliases onto the tag keys
// the reporter reads. Keys without an alias pass through unchanged.
func CanonicalTagKey(key string) string {
	switch key {
	case "url.full":
		return TagHTTPURL
	case "http.request.method":
		return TagHTTPMethod
	case "http.response.status_code":
		return TagHTTPStatusCode
	default:
		return key
	}
}
