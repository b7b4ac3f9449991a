package naming

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
)

// EndpointOther is the endpoint label used for spans that carry no HTTP-URL
// tag.
const EndpointOther = "other"

var ErrInvalidURL = errors.New("invalid http.url tag value")

var invalidIdentifierRunes = regexp.MustCompile(`[^A-Za-z0-9\-_/.]`)

var metricNameReplacer = strings.NewReplacer(".", "_", "-", "_")

// NormalizeIdentifier replaces every rune outside [A-Za-z0-9-_/.] with '-'.
func NormalizeIdentifier(raw string) string {
	return invalidIdentifierRunes.ReplaceAllString(raw, "-")
}

// MetricName converts a metric name, and optionally a namespace, into an
// exposition-safe identifier by replacing '.' and '-' with '_' in each
// segment. The namespace takes precedence: with an empty name the sanitized
// namespace is returned alone, and when both are present the result is the
// composite "namespace:name". This asymmetry is a pinned contract.
func MetricName(name, namespace string) string {
	if namespace == "" {
		return metricNameReplacer.Replace(name)
	}
	if name == "" {
		return metricNameReplacer.Replace(namespace)
	}
	return metricNameReplacer.Replace(namespace) + ":" + metricNameReplacer.Replace(name)
}

// EndpointName derives the canonical endpoint label for a span. Spans
// without an HTTP-URL tag map to EndpointOther. Otherwise the label is
// "{SCHEME} {METHOD} {path}" (scheme and method uppercased, path defaulting
// to "/") passed through NormalizeIdentifier. A URL tag that fails to parse
// yields an error wrapping ErrInvalidURL.
func EndpointName(span model.Span) (string, error) {
	urlTag, ok := span.Tag(model.TagHTTPURL)
	if !ok {
		return EndpointOther, nil
	}

	parsed, err := url.Parse(urlTag.String())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}

	method := ""
	if methodTag, ok := span.Tag(model.TagHTTPMethod); ok {
		method = strings.ToUpper(methodTag.String())
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	raw := strings.ToUpper(parsed.Scheme) + " " + method + " " + path
	return NormalizeIdentifier(raw), nil
}

// EndpointNamer derives endpoint labels for HTTP server spans. The reporter
// accepts any implementation; DirectNamer computes from scratch on every
// span, CachedNamer memoizes.
type EndpointNamer interface {
	EndpointName(span model.Span) (string, error)
}

// DirectNamer is the EndpointNamer that recomputes the label on every call.
type DirectNamer struct{}

func (DirectNamer) EndpointName(span model.Span) (string, error) {
	return EndpointName(span)
}
