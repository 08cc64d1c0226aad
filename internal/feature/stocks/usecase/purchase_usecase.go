package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/shared/tradingday"
)

// activeStatus は購入実績のある銘柄のステータスラベルです。
const activeStatus = "active"

// AddPurchase は購入台帳を更新します。リコンサイルとは独立したフローで、
// ソースへの問い合わせは行いません。
//   - amountは非負の数値であること（それ以外は ErrValidation）
//   - 未知の銘柄は purchased_amount=amount で新規作成（マーケットデータなし）
//   - 既存の銘柄は purchased_amount を加算し "active" にする
//   - 鮮度のあるキャッシュエントリは破棄せず購入フィールドのみ書き換える
//
// 端数は切り捨てられます。
func (u *stocksUsecase) AddPurchase(ctx context.Context, symbol string, amount float64) (string, error) {
	symbol = strings.ToUpper(symbol)

	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: the 'amount' field must be a positive number", domain.ErrValidation)
	}
	units := int64(amount)

	_, err := u.stocks.FindByCode(ctx, symbol)
	switch {
	case errors.Is(err, domain.ErrStockNotFound):
		// 購入経由の新規銘柄はリコンサイルが別途実行されるまでマーケットデータを持たない
		stock := entity.Stock{
			CompanyCode:     symbol,
			PurchasedAmount: units,
			PurchasedStatus: activeStatus,
			RequestData:     tradingday.LastValidString(u.now()),
		}
		if err := u.stocks.CreateWithPurchase(ctx, stock); err != nil {
			return "", err
		}
		slog.Info("stock created via purchase", "symbol", symbol, "units", units)

	case err != nil:
		return "", err

	default:
		updated, err := u.stocks.AddPurchase(ctx, symbol, units)
		if err != nil {
			return "", err
		}
		slog.Info("purchase recorded", "symbol", symbol, "units", units, "total", updated.PurchasedAmount)

		if err := u.cache.PatchPurchase(ctx, symbol, updated.PurchasedAmount, activeStatus); err != nil {
			slog.Warn("snapshot cache patch failed", "symbol", symbol, "error", err)
		}
	}

	return fmt.Sprintf("%s units of stock %s were added to your stock record.",
		formatAmount(amount), symbol), nil
}

// formatAmount はレスポンスメッセージ用にamountを整形します。
// 整数値は小数部なしで表示されます。
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
