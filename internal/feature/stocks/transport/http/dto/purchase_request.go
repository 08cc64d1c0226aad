package dto

// PurchaseRequest は購入登録リクエストのボディです。
// amountの欠落と不正な型を区別するためポインタで受けます。
type PurchaseRequest struct {
	Amount *float64 `json:"amount"`
}
