package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// SaleRecord cabecera de venta tal como está almacenada, con los blobs heredados
// (items_json / payments_json) de registros anteriores a las tablas normalizadas.
type SaleRecord struct {
	entity.Sale
	LegacyItems    []byte
	LegacyPayments []byte
}

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	// Create inserta cabecera, líneas y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve solo la cabecera (nil, nil si no existe).
	GetByID(ctx context.Context, id string) (*SaleRecord, error)
	GetItems(ctx context.Context, saleID string) ([]entity.SaleLineItem, error)
	GetPayments(ctx context.Context, saleID string) ([]entity.PaymentLine, error)
	// ListByDateRange cabeceras con created_at en [from, to), más recientes primero.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*SaleRecord, error)
	// Delete borra la venta; líneas y pagos caen en cascada.
	Delete(ctx context.Context, id string) error
}
