package entity

// Quote はクオートソースが返す正規化済みの日次取引データです。
// From はリトライによる日付ロールバック後に実際にデータが得られた日付で、
// リクエストした開始日と異なる場合があります。
type Quote struct {
	Status string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	From   string // Effective trading date (YYYY-MM-DD)
}

// Profile はプロファイルソースが返す正規化済みの企業情報です。
type Profile struct {
	CompanyName string             // May be empty; the existing persisted name is then kept
	Performance map[string]float64 // Source vocabulary keys ("5_day", "1_month", "3_month", "ytd", "1_year")
	Competitors []ProfileCompetitor
}

// ProfileCompetitor はソースから取得した競合1件です。
// 時価総額は生文字列（例 "$1.8T"）またはパース済みペアのどちらかで届きます。
type ProfileCompetitor struct {
	Name         string
	RawMarketCap string
	MarketCap    *MarketCap // Pre-parsed variant, passed through unchanged when set
}
