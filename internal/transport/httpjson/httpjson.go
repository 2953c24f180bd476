// Package httpjson holds small JSON response helpers shared by HTTP handlers.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write encodes response as JSON with the given status code.
func Write(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		// best-effort fallback; don't override status for the caller
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorBody is the uniform error envelope returned by every endpoint.
type ErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError writes the uniform error envelope.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	Write(w, status, ErrorBody{Error: code, ErrorDescription: description})
}
