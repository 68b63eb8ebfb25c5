package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para encargos y sus abonos.
type OrderRepository interface {
	// Create inserta el encargo con sus líneas.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve el encargo con sus líneas (nil, nil si no existe).
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate igual que GetByID pero bloquea la fila del encargo.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdateState persiste status y sale_id solo si el encargo sigue PENDING;
	// si ya no lo está devuelve domain.ErrOrderNotPending.
	UpdateState(ctx context.Context, order *entity.Order) error
	AddDeposit(ctx context.Context, deposit *entity.Deposit) error
	ListDeposits(ctx context.Context, orderID string) ([]entity.Deposit, error)
	// ListByDeliveryRange encargos con delivery_date en [from, to).
	ListByDeliveryRange(ctx context.Context, from, to time.Time) ([]*entity.Order, error)
}
