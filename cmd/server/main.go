package main

import (
	"log/slog"
	"os"
	"strings"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_tracker/internal/app/di"
	"stock_tracker/internal/app/router"
	"stock_tracker/internal/config"
	stocksadapters "stock_tracker/internal/feature/stocks/adapters"
	stockshandler "stock_tracker/internal/feature/stocks/transport/handler"
	stocksusecase "stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/platform/cache"
	platformdb "stock_tracker/internal/platform/db"
	platformredis "stock_tracker/internal/platform/redis"
	"stock_tracker/internal/shared/currency"
)

func main() {
	cfg := config.MustLoad()
	setupLogger(cfg.LogLevel)

	// db
	db := platformdb.OpenDB(cfg.Postgres)

	// Redis（落ちていてもキャッシュなしで起動する）
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	stockRepo := stocksadapters.NewStockRepository(db, stocksadapters.KeepMissingCompetitors)
	quotes, profiles := di.NewSources(cfg)
	snapshots := cache.NewSnapshotCache(rdb, cfg.Cache.SnapshotExpiration, "stocks")

	// Usecase
	stocksUC := stocksusecase.NewStocksUsecase(quotes, profiles, stockRepo, snapshots, currency.Lookup, nil)

	// Handler
	stocksH := stockshandler.NewStocksHandler(stocksUC)

	// ルータ生成
	r := router.NewRouter(stocksH)

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// setupLogger は設定されたレベルでデフォルトのslogロガーを構成します。
func setupLogger(level string) {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv})))
}
