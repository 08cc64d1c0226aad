// Package di provides dependency injection factories for creating application components.
package di

import (
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/lambda"

	"stock_tracker/internal/config"
	"stock_tracker/internal/feature/stocks/adapters/awslambda"
	"stock_tracker/internal/feature/stocks/adapters/marketwatch"
	"stock_tracker/internal/feature/stocks/adapters/polygon"
	"stock_tracker/internal/feature/stocks/usecase"
	platformhttp "stock_tracker/internal/platform/http"
)

// NewSources creates the quote and profile source implementations.
// If Lambda sources are enabled, both run through AWS Lambda functions.
// Otherwise they call the HTTP endpoints directly.
func NewSources(cfg *config.Config) (usecase.QuoteRepository, usecase.ProfileRepository) {
	if cfg.Lambda.Enabled {
		svc := lambda.New(session.Must(session.NewSession()))
		return awslambda.NewQuoteFunction(svc, cfg.Lambda.QuoteFunction),
			awslambda.NewProfileFunction(svc, cfg.Lambda.ProfileFunction)
	}

	quotes := polygon.NewQuoteClient(polygon.Config{
		BaseURL:    cfg.Polygon.BaseURL,
		APIKey:     cfg.Polygon.APIKey,
		Timeout:    cfg.Polygon.Timeout,
		MaxRetries: cfg.Polygon.MaxRetries,
	}, platformhttp.NewHTTPClient(cfg.Polygon.Timeout))

	profiles := marketwatch.NewProfileClient(marketwatch.Config{
		BaseURL: cfg.MarketWatch.BaseURL,
		Timeout: cfg.MarketWatch.Timeout,
	}, platformhttp.NewHTTPClient(cfg.MarketWatch.Timeout))

	return quotes, profiles
}
