package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// DecodeJSONFields decodes the request body into a map of raw field
// values, preserving exactly which fields the client submitted. Used by
// the PATCH handlers to enforce their field allow-lists.
func DecodeJSONFields(r *http.Request) (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
