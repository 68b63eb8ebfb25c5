// Package money representa montos como enteros en unidades menores (céntimos).
// Toda la aritmética de liquidación opera sobre Cents para evitar deriva de punto flotante;
// las operaciones que pueden desbordar int64 devuelven domain.ErrInvalidAmount en vez de envolver.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
)

// Cents monto en unidades menores (1/100 de la unidad de presentación).
type Cents int64

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits convierte un monto fraccionario a céntimos, redondeando al par más cercano.
// Falla con domain.ErrInvalidAmount si el valor no es finito o no cabe en Cents.
func ToMinorUnits(amount float64) (Cents, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, amount)
	}
	return FromDecimal(decimal.NewFromFloat(amount))
}

// FromDecimal convierte un monto decimal a céntimos con redondeo bancario.
// Falla con domain.ErrInvalidAmount si amount×100 queda fuera de int64.
func FromDecimal(amount decimal.Decimal) (Cents, error) {
	scaled := amount.Mul(hundred).RoundBank(0)
	if scaled.GreaterThan(maxCents) || scaled.LessThan(minCents) {
		return 0, fmt.Errorf("%w: %s fuera de rango", domain.ErrInvalidAmount, amount.String())
	}
	return Cents(scaled.IntPart()), nil
}

// FromMinorUnits inverso de ToMinorUnits: devuelve el monto de presentación con 2 decimales.
func FromMinorUnits(c Cents) decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Decimal alias de FromMinorUnits.
func (c Cents) Decimal() decimal.Decimal { return FromMinorUnits(c) }

// Mul multiplica por una cantidad entera sin redondeos intermedios.
func (c Cents) Mul(qty int64) (Cents, error) {
	if c == 0 || qty == 0 {
		return 0, nil
	}
	p := int64(c) * qty
	if p/qty != int64(c) || (int64(c) == -1 && qty == math.MinInt64) || (qty == -1 && int64(c) == math.MinInt64) {
		return 0, fmt.Errorf("%w: %s × %d desborda", domain.ErrInvalidAmount, c, qty)
	}
	return Cents(p), nil
}

// Add suma dos montos.
func Add(a, b Cents) (Cents, error) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, fmt.Errorf("%w: %s + %s desborda", domain.ErrInvalidAmount, a, b)
	}
	return s, nil
}

// Sum suma una lista de montos; falla en el primer desborde.
func Sum(values ...Cents) (Cents, error) {
	var total Cents
	for _, v := range values {
		var err error
		if total, err = Add(total, v); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Min devuelve el menor de dos montos.
func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}

// String formatea con 2 decimales (ej: 2500 -> "25.00").
func (c Cents) String() string { return c.Decimal().StringFixed(2) }
