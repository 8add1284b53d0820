// Package shared holds the request/response plumbing used by every handler:
// JSON decoding, error responses and trace ID propagation.
package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
