// Package polygon provides a client for the Polygon.io daily open-close API.
package polygon

import "time"

// Config holds configuration for the Polygon API client.
type Config struct {
	BaseURL    string        // Base URL for the API (e.g., "https://api.polygon.io")
	APIKey     string        // API key sent as a bearer token
	Timeout    time.Duration // HTTP request timeout
	MaxRetries int           // Date-rollback retries beyond the first attempt
}
