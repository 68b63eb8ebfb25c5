package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial representa un insumo (materia prima) con stock y costo promedio ponderado.
// Solo lectura desde la liquidación de ventas; lo modifican compras y producción.
type RawMaterial struct {
	ID        string
	Name      string
	Unit      string // kg, lt, und...
	Stock     decimal.Decimal
	UnitCost  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
