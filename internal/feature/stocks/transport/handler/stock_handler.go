// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_tracker/internal/api"
	"stock_tracker/internal/feature/stocks/domain"
	"stock_tracker/internal/feature/stocks/domain/entity"
	"stock_tracker/internal/feature/stocks/transport/http/dto"
)

// invalidAmountMessage は購入バリデーション失敗時の固定メッセージです。
const invalidAmountMessage = "The 'amount' field must be a positive number."

// StocksUsecase は銘柄操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StocksUsecase interface {
	GetStock(ctx context.Context, symbol string) (entity.Stock, error)
	AddPurchase(ctx context.Context, symbol string, amount float64) (string, error)
}

// StocksHandler は銘柄スナップショットと購入登録のHTTPリクエストを処理します。
type StocksHandler struct {
	uc StocksUsecase
}

// NewStocksHandler は指定されたusecaseでStocksHandlerの新しいインスタンスを生成します。
func NewStocksHandler(uc StocksUsecase) *StocksHandler {
	return &StocksHandler{uc: uc}
}

// GetStockHandler は銘柄シンボルを受け取り、正規化済みスナップショットをJSONで返します。
//
// エンドポイント例:
// GET /stock/:symbol
func (h *StocksHandler) GetStockHandler(c *gin.Context) {
	symbol := c.Param("symbol")

	stock, err := h.uc.GetStock(c.Request.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrUpstream):
			c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromEntity(stock))
}

// AddPurchaseHandler は購入数を受け取り、台帳へ記録します。
//
// エンドポイント例:
// POST /stock/:symbol {"amount": 20}
func (h *StocksHandler) AddPurchaseHandler(c *gin.Context) {
	symbol := c.Param("symbol")

	var req dto.PurchaseRequest
	// ボディ欠落・型不一致・amount未指定はすべて同じバリデーションエラーにする
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: invalidAmountMessage})
		return
	}

	msg, err := h.uc.AddPurchase(c.Request.Context(), symbol, *req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: invalidAmountMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, api.MessageResponse{Message: msg})
}
