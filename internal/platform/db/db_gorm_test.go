package db

import (
	"testing"

	"stock_tracker/internal/config"
)

// TestBuildDSN はPostgreSQL接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.Postgres
		expected string
	}{
		{
			name: "full configuration",
			cfg: config.Postgres{
				Host:     "db.internal",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "stocks",
				SSLMode:  "require",
			},
			expected: "host=db.internal port=5432 user=testuser password=testpass dbname=stocks sslmode=require",
		},
		{
			name: "local development defaults",
			cfg: config.Postgres{
				Host:    "localhost",
				Port:    5432,
				DBName:  "stocks_dev",
				User:    "postgres",
				SSLMode: "disable",
			},
			expected: "host=localhost port=5432 user=postgres password= dbname=stocks_dev sslmode=disable",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := buildDSN(tt.cfg); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
