// Package entity defines the domain models for the stocks feature.
package entity

// Stock は1銘柄の最新スナップショットを表す集約ルートです。
// CompanyCode は大文字正規化されたユニークキーです。
type Stock struct {
	Status          string            // Quote source status (e.g. "OK")
	PurchasedAmount int64             // Accumulated purchased units, never decreases
	PurchasedStatus string            // Purchase ledger label (e.g. "active")
	RequestData     string            // As-of trading date (YYYY-MM-DD) the data was fetched for
	CompanyCode     string            // Uppercase ticker symbol, unique
	CompanyName     string            // Company display name, may be empty
	Values          *StockValues      // Latest OHLC values (1:1)
	Performance     *StockPerformance // Latest performance percentages (1:1)
	Competitors     []Competitor      // Competitor set, deduplicated by name (1:N)
}

// StockValues は直近取引日のOHLC値です。リコンサイルごとに全置換されます。
type StockValues struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// StockPerformance は期間別の騰落率（%）です。ソースに無い項目は0.0になります。
type StockPerformance struct {
	FiveDays    float64
	OneMonth    float64
	ThreeMonths float64
	YearToDate  float64
	OneYear     float64
}

// MarketCap は（通貨コード, 数値）のペアです。独立レコードとしてモデル化されます。
type MarketCap struct {
	Currency string
	Value    float64
}

// Competitor は銘柄に紐づく競合企業です。同一銘柄内では名前が重複排除キーになります。
type Competitor struct {
	Name      string
	MarketCap MarketCap
}
