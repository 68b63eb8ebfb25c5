package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// RawMaterialRepository puerto de persistencia para insumos.
type RawMaterialRepository interface {
	Create(ctx context.Context, rm *entity.RawMaterial) error
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error)
	UpdateStockAndCost(ctx context.Context, id string, stock, unitCost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error)
}
