// Package marketwatch provides a client for the MarketWatch profile scraper service.
package marketwatch

import "time"

// Config holds configuration for the profile scraper client.
type Config struct {
	BaseURL string        // Scraper service endpoint (e.g., "http://scraper.internal")
	Timeout time.Duration // HTTP request timeout
}
