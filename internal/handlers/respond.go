package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Message       string  `json:"message"`
	Code          string  `json:"code,omitempty"`
	InvoiceID     int64   `json:"invoiceId,omitempty"`
	CurrentStatus *string `json:"currentStatus,omitempty"`
	ErrorID       string  `json:"errorId,omitempty"`
	Error         string  `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Message: message, Code: code})
}
