// Package dto はstocksフィーチャーのHTTPレスポンス/リクエスト型を定義します。
package dto

import "stock_tracker/internal/feature/stocks/domain/entity"

// StockResponse は銘柄スナップショットのAPI表現です。
type StockResponse struct {
	Status          string               `json:"status"`
	PurchasedAmount int64                `json:"purchased_amount"`
	PurchasedStatus string               `json:"purchased_status"`
	RequestData     string               `json:"request_data"`
	CompanyCode     string               `json:"company_code"`
	CompanyName     string               `json:"company_name"`
	Values          *StockValues         `json:"stock_values"`
	Performance     *StockPerformance    `json:"performance_data"`
	Competitors     []CompetitorResponse `json:"competitors"`
}

// StockValues は直近取引日の四本値です。
type StockValues struct {
	Open  float64 `json:"open_value"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// StockPerformance は期間別の騰落率です。
type StockPerformance struct {
	FiveDays    float64 `json:"five_days"`
	OneMonth    float64 `json:"one_month"`
	ThreeMonths float64 `json:"three_months"`
	YearToDate  float64 `json:"year_to_date"`
	OneYear     float64 `json:"one_year"`
}

// CompetitorResponse は競合1社分の表現です。
type CompetitorResponse struct {
	Name      string            `json:"name"`
	MarketCap MarketCapResponse `json:"market_cap"`
}

// MarketCapResponse は正規化済みの時価総額です。
type MarketCapResponse struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

// FromEntity はドメインの銘柄集約をAPI表現へ変換します。
func FromEntity(s entity.Stock) StockResponse {
	out := StockResponse{
		Status:          s.Status,
		PurchasedAmount: s.PurchasedAmount,
		PurchasedStatus: s.PurchasedStatus,
		RequestData:     s.RequestData,
		CompanyCode:     s.CompanyCode,
		CompanyName:     s.CompanyName,
		Competitors:     make([]CompetitorResponse, 0, len(s.Competitors)),
	}
	if s.Values != nil {
		out.Values = &StockValues{
			Open:  s.Values.Open,
			High:  s.Values.High,
			Low:   s.Values.Low,
			Close: s.Values.Close,
		}
	}
	if s.Performance != nil {
		out.Performance = &StockPerformance{
			FiveDays:    s.Performance.FiveDays,
			OneMonth:    s.Performance.OneMonth,
			ThreeMonths: s.Performance.ThreeMonths,
			YearToDate:  s.Performance.YearToDate,
			OneYear:     s.Performance.OneYear,
		}
	}
	for _, c := range s.Competitors {
		out.Competitors = append(out.Competitors, CompetitorResponse{
			Name: c.Name,
			MarketCap: MarketCapResponse{
				Currency: c.MarketCap.Currency,
				Value:    c.MarketCap.Value,
			},
		})
	}
	return out
}
