package api

import (
	"net/http"
	"net/url"
)

// stringField extracts a string value from a decoded JSON object. Absent
// keys and non-string values yield the empty string; downstream validation
// decides whether that is acceptable.
func stringField(m map[string]any, key string) string {
	value, ok := m[key].(string)
	if !ok {
		return ""
	}
	return value
}

// queryFields collects the request's query parameters into the map shape the
// field filter operates on. Repeated parameters keep their first value, and
// parameters given without a value count as blank so the filter strips them.
func queryFields(r *http.Request) map[string]any {
	return valuesToFields(r.URL.Query())
}

func valuesToFields(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out
}
