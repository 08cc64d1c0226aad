// refreshは登録済み銘柄（または引数で指定した銘柄）のスナップショットを
// 事前リコンサイルし、DBとキャッシュを温めるバッチです。
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_tracker/internal/app/di"
	"stock_tracker/internal/config"
	stocksadapters "stock_tracker/internal/feature/stocks/adapters"
	stocksusecase "stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/cache"
	platformdb "stock_tracker/internal/platform/db"
	platformredis "stock_tracker/internal/platform/redis"
	"stock_tracker/internal/shared/currency"
	"stock_tracker/internal/shared/ratelimiter"
)

func main() {
	cfg := config.MustLoad()

	db := platformdb.OpenDB(cfg.Postgres)

	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Refreshing without cache writes.")
	} else {
		rdb = tmp
		defer func() { _ = rdb.Close() }()
	}

	stockRepo := stocksadapters.NewStockRepository(db, stocksadapters.KeepMissingCompetitors)
	quotes, profiles := di.NewSources(cfg)
	snapshots := cache.NewSnapshotCache(rdb, cfg.Cache.SnapshotExpiration, "stocks")

	stocksUC := stocksusecase.NewStocksUsecase(quotes, profiles, stockRepo, snapshots, currency.Lookup, nil)
	limiter := ratelimiter.NewRateLimiter(cfg.Refresh.RateLimit, cfg.Refresh.RateInterval)
	refreshUC := stocksusecase.NewRefreshUsecase(stocksUC, limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	// 引数で銘柄が指定されていればそれを、無ければDBの全銘柄を対象にする
	symbols := os.Args[1:]
	if len(symbols) == 0 {
		var err error
		symbols, err = stockRepo.ListCodes(ctx)
		if err != nil {
			slog.Error("failed to load symbols", "error", err)
			os.Exit(1)
		}
	}
	if len(symbols) == 0 {
		slog.Info("no symbols to refresh")
		return
	}

	if err := refreshUC.RefreshAll(ctx, symbols); err != nil {
		slog.Error("refresh aborted", "error", err)
		os.Exit(1)
	}
	slog.Info("refresh ok", "symbols", len(symbols))
}
