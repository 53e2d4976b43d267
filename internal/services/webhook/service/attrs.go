package service

import (
	"strconv"
	"strings"

	"gitevents/internal/core/records"
)

// applyAttributes copies the recognised front-matter keys onto a proposal
// unknown keys are ignored; values that are not scalars are dropped
func applyAttributes(r *records.Record, attrs map[string]any) {
	if v, ok := scalar(attrs["twitter"]); ok {
		r.Speaker.Twitter = v
	}
	if v, ok := scalar(attrs["language"]); ok {
		r.Language = records.Scalar(v)
	}
	if v, ok := scalar(attrs["level"]); ok {
		r.Level = records.Scalar(v)
	}
	if v, ok := scalar(attrs["month"]); ok {
		r.Month = records.Scalar(v)
	}
	r.Tags = tags(attrs["tags"])
}

func scalar(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint64:
		s = strconv.FormatUint(t, 10)
	case float64:
		s = records.FormatNumber(t)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// tags accepts a YAML list or a comma separated string
func tags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		return records.SplitTags(t)
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if s, ok := scalar(e); ok {
				raw = append(raw, s)
			}
		}
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
