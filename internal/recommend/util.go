package recommend

import (
	"strconv"
	"strings"
)

func trimToChars(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asFloat(v any, def float64) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return def
}

// searchText is the haystack for substring preference matching.
func searchText(c Candidate) string {
	return strings.ToLower(c.Metadata.Name + " " + c.Metadata.Category + " " + c.Metadata.Description)
}

// normalizeName is the de-duplication key alongside id.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
