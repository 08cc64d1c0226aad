package usecase

import (
	"context"
	"log/slog"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/shared/ratelimiter"
)

// StockFetcher は1銘柄分のスナップショット取得を抽象化します。
type StockFetcher interface {
	GetStock(ctx context.Context, symbol string) (entity.Stock, error)
}

// RefreshUsecase は銘柄リストを事前リコンサイルしてDBとキャッシュを温めるユースケースです。
type RefreshUsecase struct {
	fetcher     StockFetcher
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
func NewRefreshUsecase(fetcher StockFetcher, rateLimiter ratelimiter.RateLimiterInterface) *RefreshUsecase {
	return &RefreshUsecase{fetcher: fetcher, rateLimiter: rateLimiter}
}

// RefreshAll は指定された全銘柄のスナップショットを取得します。
// ソースのレートリミットを考慮してリクエスト間に待機を入れ、
// 1銘柄の失敗では処理を止めずにログへ出力して続行します。
func (ru *RefreshUsecase) RefreshAll(ctx context.Context, symbols []string) error {
	for _, s := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		ru.rateLimiter.WaitIfNeeded()
		stock, err := ru.fetcher.GetStock(ctx, s)
		if err != nil {
			slog.Error("failed to refresh stock", "symbol", s, "error", err)
			continue
		}
		slog.Info("stock refreshed", "symbol", stock.CompanyCode, "request_data", stock.RequestData)
	}
	return nil
}
