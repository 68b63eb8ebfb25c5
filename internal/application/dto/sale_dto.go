package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del carrito.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"`
}

// PaymentRequest pago en moneda base o extranjera. Rate es opcional (solo extranjera).
type PaymentRequest struct {
	Currency string           `json:"currency" validate:"omitempty,len=3,alpha"`
	Amount   decimal.Decimal  `json:"amount"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
}

// CreateSaleRequest body para POST /api/sales. Montos en unidades de presentación.
type CreateSaleRequest struct {
	Items    []SaleItemRequest `json:"items" validate:"dive"`
	Payments []PaymentRequest  `json:"payments" validate:"dive"`
	Discount decimal.Decimal   `json:"discount"`
}

// SaleItemResponse línea de venta con el precio congelado.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago registrado con la tasa usada y su equivalente en moneda base.
type PaymentResponse struct {
	Currency   string           `json:"currency"`
	Amount     decimal.Decimal  `json:"amount"`
	Rate       *decimal.Decimal `json:"rate,omitempty"`
	AmountBase decimal.Decimal  `json:"amount_base"`
}

// SaleResponse venta hidratada. Total/Paid/Change también en céntimos para clientes que no usen decimales.
type SaleResponse struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Status      string             `json:"status"`
	OrderID     *string            `json:"order_id,omitempty"`
	UserID      string             `json:"user_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Items       []SaleItemResponse `json:"items"`
	Payments    []PaymentResponse  `json:"payments"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Discount    decimal.Decimal    `json:"discount"`
	Total       decimal.Decimal    `json:"total"`
	Paid        decimal.Decimal    `json:"paid"`
	Change      decimal.Decimal    `json:"change"`
	TotalCents  int64              `json:"total_cents"`
	PaidCents   int64              `json:"paid_cents"`
	ChangeCents int64              `json:"change_cents"`
}

// SaleListResponse ventas de un rango de fechas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	From  string         `json:"from"`
	To    string         `json:"to"`
}
