package awslambda

import (
	"context"
	"encoding/json"
	"fmt"

	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// ProfileFunction はプロファイル取得LambdaをラップするProfileRepository実装です。
// このLambdaのボディはオブジェクトではなく3要素のタプル
// [company_name, performance, competitors] で届きます。
type ProfileFunction struct {
	invoker      Invoker
	functionName string
}

var _ usecase.ProfileRepository = (*ProfileFunction)(nil)

// NewProfileFunction はProfileFunctionの新しいインスタンスを生成します。
func NewProfileFunction(invoker Invoker, functionName string) *ProfileFunction {
	return &ProfileFunction{invoker: invoker, functionName: functionName}
}

// GetCompanyProfile はLambdaを呼び出して企業プロファイルを取得します。
func (p *ProfileFunction) GetCompanyProfile(ctx context.Context, symbol string) (entity.Profile, error) {
	body, err := invoke(ctx, p.invoker, p.functionName, map[string]string{"symbol": symbol})
	if err != nil {
		return entity.Profile{}, err
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(body, &tuple); err != nil || len(tuple) != 3 {
		return entity.Profile{}, fmt.Errorf("%w: %s returned malformed tuple body", domain.ErrUpstream, p.functionName)
	}

	var profile entity.Profile

	// company_nameはnullのことがある
	var name *string
	if err := json.Unmarshal(tuple[0], &name); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %s returned malformed company name", domain.ErrUpstream, p.functionName)
	}
	if name != nil {
		profile.CompanyName = *name
	}

	if err := json.Unmarshal(tuple[1], &profile.Performance); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %s returned malformed performance data", domain.ErrUpstream, p.functionName)
	}

	var competitors []struct {
		Name      string `json:"name"`
		MarketCap string `json:"market_cap"`
	}
	if err := json.Unmarshal(tuple[2], &competitors); err != nil {
		return entity.Profile{}, fmt.Errorf("%w: %s returned malformed competitors", domain.ErrUpstream, p.functionName)
	}
	for _, c := range competitors {
		profile.Competitors = append(profile.Competitors, entity.ProfileCompetitor{
			Name:         c.Name,
			RawMarketCap: c.MarketCap,
		})
	}

	return profile, nil
}
