package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRawMaterialRequest body para POST /api/raw-materials.
type CreateRawMaterialRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Unit     string          `json:"unit" validate:"required,max=20"`
	Stock    decimal.Decimal `json:"stock"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// RawMaterialResponse salida de un insumo.
type RawMaterialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Stock     decimal.Decimal `json:"stock"`
	UnitCost  decimal.Decimal `json:"unit_cost"` // costo promedio ponderado
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RawMaterialListResponse lista paginada de insumos.
type RawMaterialListResponse struct {
	Items []RawMaterialResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// PurchaseRequest body para POST /api/raw-materials/:id/purchases.
type PurchaseRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty" validate:"max=100"`
}

// ProductionInputRequest insumo consumido por un lote.
type ProductionInputRequest struct {
	RawMaterialID string          `json:"raw_material_id" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ProductionRequest body para POST /api/production.
type ProductionRequest struct {
	ProductID      string                   `json:"product_id" validate:"required"`
	OutputQuantity int64                    `json:"output_quantity"`
	Inputs         []ProductionInputRequest `json:"inputs" validate:"required,min=1,dive"`
}

// ProductionResponse resultado de un lote de producción.
type ProductionResponse struct {
	BatchID        string          `json:"batch_id"`
	ProductID      string          `json:"product_id"`
	OutputQuantity int64           `json:"output_quantity"`
	ConsumedCost   decimal.Decimal `json:"consumed_cost"`
	BatchUnitCost  decimal.Decimal `json:"batch_unit_cost"`
	NewQuantity    int64           `json:"new_quantity"`
	NewUnitCost    decimal.Decimal `json:"new_unit_cost"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID        string          `json:"id"`
	ItemKind  string          `json:"item_kind"`
	ItemID    string          `json:"item_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}
