package marketwatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ProfileClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewProfileClient(Config{BaseURL: srv.URL, Timeout: time.Second}, srv.Client())
}

func TestProfileClient_GetCompanyProfile_Success(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// シンボルは小文字でリクエストされる
		assert.Equal(t, "/profile/amzn", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"company_name": "Amazon",
			"performance": {"5_day": 1.5, "1_month": 3.2},
			"competitors": [
				{"name": "Amazon", "market_cap": "$1.8T"},
				{"name": "Walmart", "market_cap": {"currency": "USD", "value": 5e11}}
			]
		}`)
	})

	profile, err := client.GetCompanyProfile(context.Background(), "AMZN")
	require.NoError(t, err)

	assert.Equal(t, "Amazon", profile.CompanyName)
	assert.Equal(t, 1.5, profile.Performance["5_day"])
	assert.Equal(t, 3.2, profile.Performance["1_month"])

	require.Len(t, profile.Competitors, 2)
	// 生文字列はそのまま保持され、パースは上位レイヤーが行う
	assert.Equal(t, "$1.8T", profile.Competitors[0].RawMarketCap)
	assert.Nil(t, profile.Competitors[0].MarketCap)
	// 構造化ペアはパース済みとして素通しされる
	require.NotNil(t, profile.Competitors[1].MarketCap)
	assert.Equal(t, entity.MarketCap{Currency: "USD", Value: 5e11}, *profile.Competitors[1].MarketCap)
}

// TestProfileClient_GetCompanyProfile_NoCompanyName は企業名が取得できない場合に
// 空文字のままエラーなしで返すことを検証します。
func TestProfileClient_GetCompanyProfile_NoCompanyName(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"performance": {"ytd": -2.1}, "competitors": []}`)
	})

	profile, err := client.GetCompanyProfile(context.Background(), "AMZN")
	require.NoError(t, err)

	assert.Empty(t, profile.CompanyName)
	assert.Equal(t, -2.1, profile.Performance["ytd"])
}

func TestProfileClient_GetCompanyProfile_UpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"error": "could not fetch data"}`)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, tt.handler)

			_, err := client.GetCompanyProfile(context.Background(), "AMZN")
			assert.True(t, errors.Is(err, domain.ErrUpstream))
		})
	}
}

func TestProfileClient_GetCompanyProfile_MalformedMarketCap(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"company_name": "X", "competitors": [{"name": "Y", "market_cap": [1,2]}]}`)
	})

	_, err := client.GetCompanyProfile(context.Background(), "AMZN")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
