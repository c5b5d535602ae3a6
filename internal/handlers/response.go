package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

const contentTypeJSON = "application/json; charset=UTF-8"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, log *log.Logger, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %s", err)
	}
}

func httpError(w http.ResponseWriter, code int, log *log.Logger, msg string) {
	log.Printf("returning error: %d %s", code, msg)
	writeJSON(w, code, log, ErrorResponse{Error: msg})
}

func validationError(w http.ResponseWriter, log *log.Logger, details []string) {
	log.Printf("returning error: validation failed: %q", details)
	writeJSON(w, http.StatusUnprocessableEntity, log, ErrorResponse{
		Error:   "validation failed",
		Details: details,
	})
}
