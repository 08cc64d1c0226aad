// Package config はアプリケーション設定を環境変数から読み込みます。
package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"PORT" envDefault:"8080"`

	Postgres    Postgres
	Redis       Redis
	Cache       Cache
	Polygon     Polygon
	MarketWatch MarketWatch
	Lambda      Lambda
	Refresh     Refresh
}

type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	DBName   string `env:"PG_DB_NAME"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	// RunMigrations がtrueの場合、起動時にAutoMigrateを実行します。
	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"false"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type Cache struct {
	// SnapshotExpiration はスナップショットの保険的なTTLです。
	// 鮮度判定はTTLではなく取引日比較で行われます。
	SnapshotExpiration time.Duration `env:"CACHE_SNAPSHOT_EXPIRATION" envDefault:"168h"`
}

type Polygon struct {
	BaseURL    string        `env:"POLYGON_BASE_URL" envDefault:"https://api.polygon.io"`
	APIKey     string        `env:"POLYGON_API_KEY"`
	Timeout    time.Duration `env:"POLYGON_TIMEOUT" envDefault:"10s"`
	MaxRetries int           `env:"POLYGON_MAX_RETRIES" envDefault:"3"`
}

type MarketWatch struct {
	// BaseURL はスクレイパーサービスのエンドポイントです。
	BaseURL string        `env:"MARKETWATCH_BASE_URL"`
	Timeout time.Duration `env:"MARKETWATCH_TIMEOUT" envDefault:"15s"`
}

type Lambda struct {
	// Enabled がtrueの場合、両ソースをHTTP直接呼び出しではなく
	// AWS Lambda経由で取得します。
	Enabled         bool   `env:"LAMBDA_SOURCES_ENABLED" envDefault:"false"`
	QuoteFunction   string `env:"LAMBDA_QUOTE_FUNCTION" envDefault:"polygon_data"`
	ProfileFunction string `env:"LAMBDA_PROFILE_FUNCTION" envDefault:"marketwatch_data"`
}

type Refresh struct {
	RateLimit    int           `env:"REFRESH_RATE_LIMIT" envDefault:"5"`
	RateInterval time.Duration `env:"REFRESH_RATE_INTERVAL" envDefault:"1m"`
}

// MustLoad は.env（存在する場合）と環境変数から設定を読み込みます。
// パースに失敗した場合はプロセスを終了します。
func MustLoad() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
