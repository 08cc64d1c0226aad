package awslambda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// QuoteFunction はクオート取得LambdaをラップするQuoteRepository実装です。
// 日付ロールバックのリトライはLambda側で行われます。
type QuoteFunction struct {
	invoker      Invoker
	functionName string
}

var _ usecase.QuoteRepository = (*QuoteFunction)(nil)

// NewQuoteFunction はQuoteFunctionの新しいインスタンスを生成します。
func NewQuoteFunction(invoker Invoker, functionName string) *QuoteFunction {
	return &QuoteFunction{invoker: invoker, functionName: functionName}
}

// GetDailyQuote はLambdaを呼び出して日次クオートを取得します。
// Lambda側でリトライ窓が尽きた場合は domain.ErrQuoteNotFound を返します。
func (q *QuoteFunction) GetDailyQuote(ctx context.Context, symbol, startDate string) (entity.Quote, error) {
	body, err := invoke(ctx, q.invoker, q.functionName, map[string]string{
		"symbol":     symbol,
		"start_date": startDate,
	})
	if err != nil {
		// リトライ窓切れはLambdaからはエラーメッセージでしか区別できない
		if strings.Contains(err.Error(), "not found") {
			return entity.Quote{}, fmt.Errorf("%w: %v", domain.ErrQuoteNotFound, err)
		}
		return entity.Quote{}, err
	}

	var data struct {
		Status string  `json:"status"`
		From   string  `json:"from"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return entity.Quote{}, fmt.Errorf("%w: %s returned malformed body: %v", domain.ErrUpstream, q.functionName, err)
	}

	return entity.Quote{
		Status: data.Status,
		Open:   data.Open,
		High:   data.High,
		Low:    data.Low,
		Close:  data.Close,
		From:   data.From,
	}, nil
}
