// Package currency は通貨記号からISO 4217コードへの変換を提供します。
package currency

import "github.com/Rhymond/go-money"

// knownCodes は記号を解決する対象の通貨コードです。
// "$" のように複数の通貨で共有される記号は先頭側のコードが優先されます。
var knownCodes = []string{
	"USD", "EUR", "JPY", "GBP", "CHF", "CAD", "AUD", "CNY", "HKD",
	"SEK", "NOK", "DKK", "INR", "KRW", "BRL", "RUB", "ZAR", "MXN",
	"SGD", "NZD", "TRY", "PLN", "THB", "ILS",
}

var symbolToCode = buildTable()

// buildTable はgo-moneyの通貨定義から記号→コードの逆引き表を構築します。
func buildTable() map[string]string {
	m := make(map[string]string, len(knownCodes))
	for _, code := range knownCodes {
		c := money.GetCurrency(code)
		if c == nil || c.Grapheme == "" {
			continue
		}
		if _, ok := m[c.Grapheme]; !ok {
			m[c.Grapheme] = c.Code
		}
	}
	return m
}

// Lookup は通貨記号（例: "$"）に対応するISOコード（例: "USD"）を返します。
func Lookup(symbol string) (string, bool) {
	code, ok := symbolToCode[symbol]
	return code, ok
}
