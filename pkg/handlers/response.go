package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorResponse writes a JSON error body with the given status code and
// returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(ErrorBody{Error: errorCode, Message: message})
}

// WriteJSON encodes data as the response body and returns any encoding
// error. Non-200 statuses are written explicitly.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
