// Package dto defines data transfer objects for the profile scraper responses.
package dto

import "encoding/json"

// ProfileResponse represents the JSON response from the scraper service.
type ProfileResponse struct {
	CompanyName string             `json:"company_name"`
	Performance map[string]float64 `json:"performance"`
	Competitors []CompetitorEntry  `json:"competitors"`
	Error       string             `json:"error,omitempty"`
}

// CompetitorEntry は競合1件です。market_capは生文字列（"$1.8T"）と
// パース済みオブジェクト（{"currency":"USD","value":1.8e12}）のどちらの形でも届きます。
type CompetitorEntry struct {
	Name      string          `json:"name"`
	MarketCap json.RawMessage `json:"market_cap"`
}

// MarketCapObject is the structured variant of a competitor's market cap.
type MarketCapObject struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}
