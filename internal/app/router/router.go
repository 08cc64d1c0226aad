// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"github.com/gin-gonic/gin"

	stockshandler "stock_tracker/internal/feature/stocks/transport/handler"
	platformhandler "stock_tracker/internal/platform/http/handler"
)

func NewRouter(stocks *stockshandler.StocksHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// 銘柄スナップショット取得（キャッシュ→リコンサイル）
	r.GET("/stock/:symbol", stocks.GetStockHandler)
	// 購入登録
	r.POST("/stock/:symbol", stocks.AddPurchaseHandler)

	return r
}
