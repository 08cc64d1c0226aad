package marketwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"stock_tracker/internal/feature/stocks/adapters/marketwatch/dto"
	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/usecase"
)

// ProfileClient はスクレイパーサービス経由でMarketWatchの企業プロファイルを
// 取得するProfileRepository実装です。スクレイピング自体はサービス側の責務で、
// このクライアントは正規化済みJSONを受け取るだけです。
type ProfileClient struct {
	client *resty.Client
}

// ProfileClientがProfileRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ProfileRepository = (*ProfileClient)(nil)

// NewProfileClient は指定された設定とHTTPクライアントでProfileClientの新しいインスタンスを生成します。
func NewProfileClient(cfg Config, hc *http.Client) *ProfileClient {
	c := resty.NewWithClient(hc).SetBaseURL(cfg.BaseURL)
	return &ProfileClient{client: c}
}

// GetCompanyProfile は企業名・騰落率・競合リストを取得します。
// 企業名は取得できないことがあり、その場合は空文字のまま返します。
func (p *ProfileClient) GetCompanyProfile(ctx context.Context, symbol string) (entity.Profile, error) {
	var body dto.ProfileResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&body).
		SetPathParam("symbol", strings.ToLower(symbol)).
		Get("/profile/{symbol}")
	if err != nil {
		return entity.Profile{}, fmt.Errorf("%w: marketwatch request failed: %v", domain.ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		return entity.Profile{}, fmt.Errorf("%w: could not fetch data from MarketWatch for %s (http %d)",
			domain.ErrUpstream, symbol, resp.StatusCode())
	}
	if body.Error != "" {
		return entity.Profile{}, fmt.Errorf("%w: marketwatch: %s", domain.ErrUpstream, body.Error)
	}

	profile := entity.Profile{
		CompanyName: body.CompanyName,
		Performance: body.Performance,
	}
	for _, c := range body.Competitors {
		pc, err := toProfileCompetitor(c)
		if err != nil {
			return entity.Profile{}, err
		}
		profile.Competitors = append(profile.Competitors, pc)
	}
	return profile, nil
}

// toProfileCompetitor はmarket_capの2つの形（生文字列・構造化ペア）を吸収します。
func toProfileCompetitor(c dto.CompetitorEntry) (entity.ProfileCompetitor, error) {
	pc := entity.ProfileCompetitor{Name: c.Name}
	if len(c.MarketCap) == 0 {
		return pc, nil
	}

	var raw string
	if err := json.Unmarshal(c.MarketCap, &raw); err == nil {
		pc.RawMarketCap = raw
		return pc, nil
	}

	var obj dto.MarketCapObject
	if err := json.Unmarshal(c.MarketCap, &obj); err != nil {
		return entity.ProfileCompetitor{}, fmt.Errorf("%w: malformed market_cap for competitor %q",
			domain.ErrValidation, c.Name)
	}
	pc.MarketCap = &entity.MarketCap{Currency: obj.Currency, Value: obj.Value}
	return pc, nil
}
