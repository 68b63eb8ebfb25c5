package repository

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// StockMovementRepository puerto de persistencia del kardex. Solo inserción y lectura.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, kind, itemID string, limit int) ([]*entity.StockMovement, error)
}
