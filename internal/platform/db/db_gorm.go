// Package db はPostgreSQLへのgorm接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stock_tracker/internal/config"
	"stock_tracker/internal/feature/stocks/adapters"
)

// OpenDB はPostgreSQLへ接続します。コンテナ起動直後などDBが
// まだ受け付けない場合に備えて60秒までリトライします。
func OpenDB(cfg config.Postgres) *gorm.DB {
	dsn := buildDSN(cfg)

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			slog.Error("DB connect failed after 60s", "error", err)
			os.Exit(1)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(3 * time.Second)
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(adapters.Models()...); err != nil {
			slog.Error("failed to migrate", "error", err)
			os.Exit(1)
		}
	}

	return db
}

func buildDSN(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}
