// Package api defines shared HTTP response envelopes used across feature handlers.
package api

// ErrorResponse is the JSON envelope for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON envelope for simple success messages.
type MessageResponse struct {
	Message string `json:"message"`
}
