package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON shape of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes data as the JSON response body
func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Already wrote headers, can only log
		return
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
