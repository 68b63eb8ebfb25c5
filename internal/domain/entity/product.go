package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto terminado que se vende en caja.
// Quantity es la existencia disponible (nunca negativa); UnitCost es el costo promedio ponderado
// que mantienen los flujos de producción; SalePrice es opcional y, si falta, se cotiza al costo.
type Product struct {
	ID         string
	Name       string
	Quantity   int64
	UnitCost   *decimal.Decimal
	SalePrice  *decimal.Decimal
	CategoryID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
