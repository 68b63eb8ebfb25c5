package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto terminado.
type CreateProductRequest struct {
	Name       string           `json:"name" validate:"required,min=1,max=200"`
	Quantity   int64            `json:"quantity" validate:"min=0"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice  *decimal.Decimal `json:"sale_price,omitempty"`
	CategoryID *string          `json:"category_id,omitempty"`
}

// UpdatePricesRequest reemplaza precio de venta y costo (nil los deja sin valor).
type UpdatePricesRequest struct {
	SalePrice *decimal.Decimal `json:"sale_price"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Quantity   int64            `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	SalePrice  *decimal.Decimal `json:"sale_price"`
	CategoryID *string          `json:"category_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
