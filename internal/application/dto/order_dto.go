package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea del encargo.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity"`
}

// CreateOrderRequest body para POST /api/orders. DeliveryDate en YYYY-MM-DD o RFC3339.
type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" validate:"max=200"`
	DeliveryDate string             `json:"delivery_date"`
	Notes        string             `json:"notes,omitempty" validate:"max=1000"`
	Items        []OrderItemRequest `json:"items" validate:"dive"`
}

// DepositRequest body para POST /api/orders/:id/deposits.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method,omitempty" validate:"max=50"`
}

// FinalizeOrderRequest pagos adicionales a los abonos y descuento final.
type FinalizeOrderRequest struct {
	Payments []PaymentRequest `json:"payments" validate:"dive"`
	Discount decimal.Decimal  `json:"discount"`
}

// OrderItemResponse línea del encargo con precio estimado congelado.
type OrderItemResponse struct {
	ProductID          string          `json:"product_id"`
	Quantity           int64           `json:"quantity"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price"`
	Subtotal           decimal.Decimal `json:"subtotal"`
}

// DepositResponse abono registrado.
type DepositResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderResponse encargo con sus líneas y abonos.
type OrderResponse struct {
	ID             string              `json:"id"`
	CustomerName   string              `json:"customer_name"`
	DeliveryDate   time.Time           `json:"delivery_date"`
	Status         string              `json:"status"`
	SaleID         *string             `json:"sale_id,omitempty"`
	Notes          string              `json:"notes,omitempty"`
	CreatedBy      string              `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	Items          []OrderItemResponse `json:"items"`
	EstimatedTotal decimal.Decimal     `json:"estimated_total"`
	Deposits       []DepositResponse   `json:"deposits"`
	Deposited      decimal.Decimal     `json:"deposited"`
	Balance        decimal.Decimal     `json:"balance"` // estimado − abonado
}

// OrderListResponse encargos con entrega en un rango de fechas.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	From  string          `json:"from"`
	To    string          `json:"to"`
}

// FinalizeOrderResponse encargo entregado y la venta que lo liquidó.
type FinalizeOrderResponse struct {
	Order OrderResponse `json:"order"`
	Sale  SaleResponse  `json:"sale"`
}
