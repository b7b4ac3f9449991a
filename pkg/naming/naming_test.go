package naming

import (
	"errors"
	"testing"
	"time"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdentifier(t *testing.T) {
	t.Run("Keeps allowed characters untouched", func(t *testing.T) {
		assert.Equal(t, "abc-DEF_09/.txt", NormalizeIdentifier("abc-DEF_09/.txt"))
	})

	t.Run("Replaces disallowed characters with dashes", func(t *testing.T) {
		assert.Equal(t, "HTTP-GET-/foo", NormalizeIdentifier("HTTP GET /foo"))
		assert.Equal(t, "a-b-c", NormalizeIdentifier("a@b#c"))
		assert.Equal(t, "----", NormalizeIdentifier("{}()"))
	})

	t.Run("Leaves the empty string empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeIdentifier(""))
	})
}

func TestMetricName(t *testing.T) {
	t.Run("Sanitizes a bare name", func(t *testing.T) {
		assert.Equal(t, "http_requests_count", MetricName("http.requests-count", ""))
	})

	t.Run("Returns the sanitized namespace when the name is empty", func(t *testing.T) {
		assert.Equal(t, "my_app", MetricName("", "my-app"))
	})

	t.Run("Joins namespace and name with a colon", func(t *testing.T) {
		assert.Equal(t, "my_app:latency", MetricName("latency", "my.app"))
	})
}

func TestEndpointName(t *testing.T) {
	t.Run("Maps spans without a url tag to the other endpoint", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{}}
		endpoint, err := EndpointName(span)
		assert.Nil(t, err)
		assert.Equal(t, EndpointOther, endpoint)
	})

	t.Run("Builds the endpoint from scheme method and path", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{
			model.TagHTTPURL:    model.StringTag("http://127.0.0.1/foo"),
			model.TagHTTPMethod: model.StringTag("GET"),
		}}
		endpoint, err := EndpointName(span)
		assert.Nil(t, err)
		assert.Equal(t, "HTTP-GET-/foo", endpoint)
	})

	t.Run("Drops the host and query from the label", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{
			model.TagHTTPURL:    model.StringTag("http://example.com/foo?q=1"),
			model.TagHTTPMethod: model.StringTag("get"),
		}}
		endpoint, err := EndpointName(span)
		assert.Nil(t, err)
		assert.Equal(t, "HTTP-GET-/foo", endpoint)
	})

	t.Run("Defaults the path to the root", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{
			model.TagHTTPURL:    model.StringTag("https://example.com"),
			model.TagHTTPMethod: model.StringTag("POST"),
		}}
		endpoint, err := EndpointName(span)
		assert.Nil(t, err)
		assert.Equal(t, "HTTPS-POST-/", endpoint)
	})

	t.Run("Keeps an empty method segment when the method tag is absent", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{
			model.TagHTTPURL: model.StringTag("https://example.com/users"),
		}}
		endpoint, err := EndpointName(span)
		assert.Nil(t, err)
		assert.Equal(t, "HTTPS--/users", endpoint)
	})

	t.Run("Propagates parse failures on malformed urls", func(t *testing.T) {
		span := testSpan{tags: map[string]model.TagValue{
			model.TagHTTPURL:    model.StringTag("://checkout/cart"),
			model.TagHTTPMethod: model.StringTag("GET"),
		}}
		_, err := EndpointName(span)
		if err == nil {
			t.Error("Expected error, got nil")
		}
		assert.True(t, errors.Is(err, ErrInvalidURL))
	})
}

type testSpan struct {
	operation string
	duration  time.Duration
	tags      map[string]model.TagValue
}

func (ts testSpan) OperationName() string { return ts.operation }

func (ts testSpan) Duration() time.Duration { return ts.duration }

func (ts testSpan) Tag(key string) (model.TagValue, bool) {
	value, ok := ts.tags[key]
	return value, ok
}

func (ts testSpan) Context() model.SpanContext { return testSpanContext{} }

type testSpanContext struct{}

func (testSpanContext) ParentServiceKey() (string, bool) { return "", false }
