package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	UpdateStockAndCost(ctx context.Context, id string, quantity int64, unitCost decimal.Decimal) error
	UpdatePrices(ctx context.Context, id string, salePrice, unitCost *decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
