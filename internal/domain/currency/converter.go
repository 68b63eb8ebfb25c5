// Package currency convierte líneas de pago a céntimos de la moneda base.
// El sistema opera con exactamente dos monedas: la base y una extranjera.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// Escalas con que se persisten monto y tasa (sale_payments.amount / sale_payments.rate).
// Convert normaliza a estas escalas antes de calcular AmountBase, así la fila guardada lo reproduce.
const (
	AmountScale = 4
	RateScale   = 6
)

// Payment línea de pago tal como la entrega el cliente.
type Payment struct {
	Currency string
	Amount   decimal.Decimal
	Rate     *decimal.Decimal // opcional; solo tiene sentido en moneda extranjera
}

// Converted resultado de convertir un pago: valor en céntimos base y tasa efectivamente usada.
type Converted struct {
	Currency   string
	Amount     decimal.Decimal
	Rate       *decimal.Decimal // nil para moneda base
	AmountBase money.Cents
}

// Converter conoce los códigos de la moneda base y la extranjera.
type Converter struct {
	Base    string
	Foreign string
}

// NewConverter construye el conversor normalizando los códigos a mayúsculas.
func NewConverter(base, foreign string) Converter {
	return Converter{
		Base:    strings.ToUpper(strings.TrimSpace(base)),
		Foreign: strings.ToUpper(strings.TrimSpace(foreign)),
	}
}

// Code normaliza el código de moneda; vacío equivale a la base. Solo se aceptan la base y la extranjera.
func (c Converter) Code(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	switch code {
	case "":
		return c.Base, nil
	case c.Base, c.Foreign:
		return code, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, code)
	}
}

// Convert lleva el pago a céntimos de la moneda base.
// Moneda extranjera: tasa explícita o defaultRate; valor = round(monto × tasa × 100), mitad al par.
func (c Converter) Convert(p Payment, defaultRate decimal.Decimal) (Converted, error) {
	code, err := c.Code(p.Currency)
	if err != nil {
		return Converted{}, err
	}
	amount := p.Amount.RoundBank(AmountScale)
	if !amount.IsPositive() {
		return Converted{}, fmt.Errorf("%w: %s %s", domain.ErrInvalidPaymentAmount, p.Amount.String(), code)
	}

	switch code {
	case c.Base:
		base, err := money.FromDecimal(amount)
		if err != nil {
			return Converted{}, err
		}
		return Converted{Currency: code, Amount: amount, AmountBase: base}, nil
	case c.Foreign:
		rate := defaultRate
		if p.Rate != nil {
			rate = *p.Rate
		}
		rate = rate.RoundBank(RateScale)
		if !rate.IsPositive() {
			return Converted{}, fmt.Errorf("%w: %s", domain.ErrInvalidExchangeRate, rate.String())
		}
		base, err := money.FromDecimal(amount.Mul(rate))
		if err != nil {
			return Converted{}, err
		}
		return Converted{Currency: code, Amount: amount, Rate: &rate, AmountBase: base}, nil
	default:
		return Converted{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedCurrency, code)
	}
}

// ConvertAll convierte todos los pagos y devuelve además la suma en céntimos base.
func (c Converter) ConvertAll(payments []Payment, defaultRate decimal.Decimal) ([]Converted, money.Cents, error) {
	out := make([]Converted, 0, len(payments))
	var total money.Cents
	for _, p := range payments {
		conv, err := c.Convert(p, defaultRate)
		if err != nil {
			return nil, 0, err
		}
		if total, err = money.Add(total, conv.AmountBase); err != nil {
			return nil, 0, err
		}
		out = append(out, conv)
	}
	return out, total, nil
}

// NeedsDefaultRate indica si algún pago en moneda extranjera carece de tasa explícita.
func (c Converter) NeedsDefaultRate(payments []Payment) bool {
	for _, p := range payments {
		if p.Rate == nil && strings.ToUpper(strings.TrimSpace(p.Currency)) == c.Foreign {
			return true
		}
	}
	return false
}
