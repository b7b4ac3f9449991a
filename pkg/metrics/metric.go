package metrics

import (
	"strconv"
	"strings"
)

// Metric is either a Histogram or a Counter. The unexported methods keep the
// variant set closed to this package; the Registry renders any Metric through
// them.
type Metric interface {
	Name() string
	Help() string
	kind() string
	writeData(sb *strings.Builder)
}

// seriesKey folds an ordered tuple of label values into a map key. 0xff never
// occurs in UTF-8 encoded text, so the join is unambiguous.
func seriesKey(labelValues []string) string {
	return strings.Join(labelValues, "\xff")
}

// renderLabels renders `name="value"` pairs comma-joined in declared order,
// without surrounding braces.
func renderLabels(labelKeys, labelValues []string) string {
	var sb strings.Builder
	for i, key := range labelKeys {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(key)
		sb.WriteString(`="`)
		sb.WriteString(labelValues[i])
		sb.WriteString(`"`)
	}
	return sb.String()
}

func wrapLabels(labels string) string {
	if labels == "" {
		return ""
	}
	return "{" + labels + "}"
}

// formatFloat renders bucket bounds and sums without trailing zeros, so a
// bound declared as 0.5 renders as `0.5` and 10 as `10`.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
