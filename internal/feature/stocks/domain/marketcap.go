package domain

import (
	"fmt"
	"regexp"
	"strconv"

	"stock_tracker/internal/feature/stocks/domain/entity"
)

// SymbolLookup は通貨記号（例 "$"）をISO 4217コード（例 "USD"）に解決します。
type SymbolLookup func(symbol string) (code string, ok bool)

// marketCapPattern は先頭の非数字列（通貨記号）と残りの数値部を分離します。
var marketCapPattern = regexp.MustCompile(`^([^\d.]+)([\d.].*)$`)

// suffixScale は数値部末尾のスケール文字に対応する倍率です。
var suffixScale = map[byte]float64{
	'T': 1e12,
	'B': 1e9,
	'M': 1e6,
}

// ParseMarketCap は "$1.8T" のような生文字列を（通貨コード, 数値）ペアにパースします。
// 数値部が無い、通貨記号が未知、数値が不正な場合は ErrValidation を返します。
func ParseMarketCap(raw string, lookup SymbolLookup) (entity.MarketCap, error) {
	m := marketCapPattern.FindStringSubmatch(raw)
	if m == nil {
		return entity.MarketCap{}, fmt.Errorf("%w: market cap %q has no numeric part", ErrValidation, raw)
	}

	code, ok := lookup(m[1])
	if !ok {
		return entity.MarketCap{}, fmt.Errorf("%w: currency symbol %q not recognized", ErrValidation, m[1])
	}

	value, err := parseScaledValue(m[2])
	if err != nil {
		return entity.MarketCap{}, err
	}

	return entity.MarketCap{Currency: code, Value: value}, nil
}

// ResolveMarketCap は競合1件の時価総額を確定します。
// パース済みペアが揃っていればそのまま通し、それ以外は生文字列をパースします。
func ResolveMarketCap(c entity.ProfileCompetitor, lookup SymbolLookup) (entity.MarketCap, error) {
	if c.MarketCap != nil && c.MarketCap.Currency != "" && c.MarketCap.Value != 0 {
		return *c.MarketCap, nil
	}
	if c.RawMarketCap == "" {
		return entity.MarketCap{}, fmt.Errorf("%w: market cap data is required", ErrValidation)
	}
	return ParseMarketCap(c.RawMarketCap, lookup)
}

// parseScaledValue は末尾のT/B/Mスケール付き数値文字列をfloat64にパースします。
func parseScaledValue(s string) (float64, error) {
	scale := 1.0
	if mult, ok := suffixScale[s[len(s)-1]]; ok {
		scale = mult
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: market cap value %q is not numeric", ErrValidation, s)
	}
	return v * scale, nil
}
