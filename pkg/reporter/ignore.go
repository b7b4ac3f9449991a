package reporter

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/casualjim/opentracing-metrics-tracer/pkg/span/model"
)

// An ignoreRule drops spans whose tag value matches a pattern. Matching is
// unanchored: the pattern may match any substring of the rendered tag value.
type ignoreRule struct {
	tagKey  string
	pattern *regexp.Regexp
}

func compileIgnoreRules(ignoreTags map[string]string) ([]ignoreRule, error) {
	keys := make([]string, 0, len(ignoreTags))
	for key := range ignoreTags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rules := make([]ignoreRule, 0, len(keys))
	for _, key := range keys {
		pattern, err := regexp.Compile(ignoreTags[key])
		if err != nil {
			return nil, fmt.Errorf("error compiling ignore pattern for tag %s: %w", key, err)
		}
		rules = append(rules, ignoreRule{tagKey: key, pattern: pattern})
	}
	return rules, nil
}

func matchesAnyRule(rules []ignoreRule, span model.Span) bool {
	for _, rule := range rules {
		if value, ok := span.Tag(rule.tagKey); ok && rule.pattern.MatchString(value.String()) {
			return true
		}
	}
	return false
}
