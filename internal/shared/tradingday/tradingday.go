// Package tradingday は直近の有効な取引日（営業日）を計算します。
package tradingday

import "time"

// Layout は取引日を表す日付フォーマットです。
const Layout = "2006-01-02"

// LastValid は now から見て直近の有効な取引日を返します。
// 前日から開始し、土曜・日曜の間は1日ずつ遡ります。
// 祝日カレンダーは参照しません（既知の制限）。
func LastValid(now time.Time) time.Time {
	d := now.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// LastValidString はLastValidの結果を YYYY-MM-DD 形式で返します。
func LastValidString(now time.Time) string {
	return LastValid(now).Format(Layout)
}
