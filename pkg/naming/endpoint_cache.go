package naming

import (
	"fmt"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// CachedNamerImpl memoizes endpoint labels by the span's raw URL and method
// tags. Eviction is based on LRU and LFU policies. Only successful lookups
// are cached, so malformed URLs surface their error on every call.
type CachedNamerImpl struct {
	cache    *ristretto.Cache
	delegate EndpointNamer
	logger   *zap.Logger
}

func NewCachedNamerImpl(
	cache *ristretto.Cache,
	delegate EndpointNamer,
	logger *zap.Logger,
) *CachedNamerImpl {
	return &CachedNamerImpl{
		cache:    cache,
		delegate: delegate,
		logger:   logger,
	}
}

func (cn *CachedNamerImpl) EndpointName(span model.Span) (string, error) {
	key, cacheable := cacheKey(span)
	if !cacheable {
		return cn.delegate.EndpointName(span)
	}
	if value, found := cn.cache.Get(key); found {
		typedValue, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("value not of expected type %T returned from cache when getting", value)
		}
		return typedValue, nil
	}
	endpoint, err := cn.delegate.EndpointName(span)
	if err != nil {
		return "", err
	}
	set := cn.cache.Set(key, endpoint, 1)
	if !set {
		cn.logger.Warn("Failed to set endpoint name in cache", zap.String("key", key))
	}
	return endpoint, nil
}

func cacheKey(span model.Span) (string, bool) {
	urlTag, ok := span.Tag(model.TagHTTPURL)
	if !ok {
		return "", false
	}
	method := ""
	if methodTag, ok := span.Tag(model.TagHTTPMethod); ok {
		method = methodTag.String()
	}
	return method + " " + urlTag.String(), true
}
