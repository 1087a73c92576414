// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON error body for the download endpoints.
type errorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message,omitempty"`
	Supported []string `json:"supported,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeBadRequest writes a 400 validation error.
func writeBadRequest(w http.ResponseWriter, resp errorResponse) {
	writeJSON(w, http.StatusBadRequest, resp)
}

// writeServerError writes a 500 with a structured error body.
func writeServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   "internal error",
		Message: message,
	})
}
