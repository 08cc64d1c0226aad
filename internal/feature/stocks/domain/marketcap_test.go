package domain

import (
	"errors"
	"testing"

	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/shared/currency"
)

func TestParseMarketCap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    entity.MarketCap
		wantErr bool
	}{
		{
			name: "dollar with T suffix",
			raw:  "$1.8T",
			want: entity.MarketCap{Currency: "USD", Value: 1.8e12},
		},
		{
			name: "leading zero value",
			raw:  "$0.8T",
			want: entity.MarketCap{Currency: "USD", Value: 0.8e12},
		},
		{
			name: "billions",
			raw:  "$335.42B",
			want: entity.MarketCap{Currency: "USD", Value: 335.42e9},
		},
		{
			name: "millions",
			raw:  "€25M",
			want: entity.MarketCap{Currency: "EUR", Value: 25e6},
		},
		{
			name: "no suffix",
			raw:  "£1200.5",
			want: entity.MarketCap{Currency: "GBP", Value: 1200.5},
		},
		{
			name:    "no numeric part",
			raw:     "garbage",
			wantErr: true,
		},
		{
			name:    "unknown currency symbol",
			raw:     "@1.8T",
			wantErr: true,
		},
		{
			name:    "non numeric remainder",
			raw:     "$1.8.9.X",
			wantErr: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMarketCap(tt.raw, currency.Lookup)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tt.raw, got)
				}
				// すべてのパース失敗はErrValidationとして扱われる
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v is not ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMarketCap(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestResolveMarketCap はパース済みペアの素通しと生文字列フォールバックを検証します。
func TestResolveMarketCap(t *testing.T) {
	t.Parallel()

	t.Run("pre-parsed pair passes through unchanged", func(t *testing.T) {
		t.Parallel()

		pre := &entity.MarketCap{Currency: "USD", Value: 2.5e12}
		got, err := ResolveMarketCap(entity.ProfileCompetitor{Name: "Apple", MarketCap: pre}, currency.Lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != *pre {
			t.Errorf("got %+v, want %+v", got, *pre)
		}
	})

	t.Run("raw string is parsed when no pair is given", func(t *testing.T) {
		t.Parallel()

		got, err := ResolveMarketCap(entity.ProfileCompetitor{Name: "Amazon", RawMarketCap: "$1.8T"}, currency.Lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := entity.MarketCap{Currency: "USD", Value: 1.8e12}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("incomplete pair falls back to raw string", func(t *testing.T) {
		t.Parallel()

		got, err := ResolveMarketCap(entity.ProfileCompetitor{
			Name:         "Meta",
			RawMarketCap: "$0.8T",
			MarketCap:    &entity.MarketCap{Currency: "USD"},
		}, currency.Lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Value != 0.8e12 {
			t.Errorf("got value %v, want %v", got.Value, 0.8e12)
		}
	})

	t.Run("missing data fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveMarketCap(entity.ProfileCompetitor{Name: "Empty"}, currency.Lookup)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}
