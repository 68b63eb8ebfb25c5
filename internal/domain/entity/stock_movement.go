package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// Clases de ítem afectados por un movimiento.
const (
	ItemKindProduct     = "PRODUCT"
	ItemKindRawMaterial = "RAW_MATERIAL"
)

// StockMovement registro de auditoría de cada cambio de existencia (nunca se borra).
// Reference apunta al documento que lo originó: venta, encargo, compra o lote de producción.
type StockMovement struct {
	ID        string
	ItemKind  string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal // siempre positivo; el signo lo da Type
	UnitCost  decimal.Decimal
	Reference string
	CreatedBy string
	CreatedAt time.Time
}
