package polygon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"stock_tracker/internal/feature/stocks/adapters/polygon/dto"
	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
	"stock_tracker/internal/shared/tradingday"
)

// QuoteClient はPolygon APIから日次クオートを取得するQuoteRepository実装です。
type QuoteClient struct {
	client     *resty.Client
	maxRetries int
}

// QuoteClientがQuoteRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.QuoteRepository = (*QuoteClient)(nil)

// NewQuoteClient は指定された設定とHTTPクライアントでQuoteClientの新しいインスタンスを生成します。
func NewQuoteClient(cfg Config, hc *http.Client) *QuoteClient {
	c := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey)
	return &QuoteClient{client: c, maxRetries: cfg.MaxRetries}
}

// GetDailyQuote は指定日の始値・終値データを取得します。
// データが無い日付（404）では1日ずつ遡り、最初の試行に加えてmaxRetries回までリトライします。
// 全試行が尽きた場合は domain.ErrQuoteNotFound、その他の非成功レスポンスは
// 即座に domain.ErrUpstream を返します。
func (q *QuoteClient) GetDailyQuote(ctx context.Context, symbol, startDate string) (entity.Quote, error) {
	day := startDate

	for attempt := 0; attempt <= q.maxRetries; attempt++ {
		var body dto.OpenCloseResponse
		resp, err := q.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetResult(&body).
			SetPathParams(map[string]string{"symbol": symbol, "date": day}).
			Get("/v1/open-close/{symbol}/{date}")
		if err != nil {
			return entity.Quote{}, fmt.Errorf("%w: polygon request failed: %v", domain.ErrUpstream, err)
		}

		switch {
		case resp.IsSuccess():
			return entity.Quote{
				Status: body.Status,
				Open:   body.Open,
				High:   body.High,
				Low:    body.Low,
				Close:  body.Close,
				From:   body.From,
			}, nil

		case resp.StatusCode() == http.StatusNotFound:
			slog.Warn("no quote data found, rolling back one day", "symbol", symbol, "date", day)
			d, perr := time.Parse(tradingday.Layout, day)
			if perr != nil {
				return entity.Quote{}, fmt.Errorf("%w: invalid quote date %q", domain.ErrValidation, day)
			}
			day = d.AddDate(0, 0, -1).Format(tradingday.Layout)

		default:
			return entity.Quote{}, fmt.Errorf("%w: polygon http %d", domain.ErrUpstream, resp.StatusCode())
		}
	}

	return entity.Quote{}, fmt.Errorf("stock data not found for %s in the last %d days: %w",
		symbol, q.maxRetries, domain.ErrQuoteNotFound)
}
