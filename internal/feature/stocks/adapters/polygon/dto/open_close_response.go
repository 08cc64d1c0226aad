// Package dto defines data transfer objects for the Polygon API responses.
package dto

// OpenCloseResponse represents the JSON response from the Polygon daily open-close endpoint.
type OpenCloseResponse struct {
	Status string  `json:"status"`
	From   string  `json:"from"`
	Symbol string  `json:"symbol"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
