package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// Estado y tipos de venta.
const (
	SaleStatusComplete = "COMPLETE"

	SaleKindDirect    = "DIRECT"     // venta de mostrador
	SaleKindFromOrder = "FROM_ORDER" // producida al finalizar un encargo
)

// Sale cabecera de una venta liquidada con sus líneas y pagos.
// Invariantes: Total = Σ subtotales − Discount; Σ AmountBase de los pagos >= Total.
type Sale struct {
	ID        string
	Total     money.Cents
	Discount  money.Cents
	Items     []SaleLineItem
	Payments  []PaymentLine
	CreatedAt time.Time
	UserID    string
	Status    string
	Kind      string
	OrderID   *string
}

// Gross suma de subtotales antes del descuento.
func (s Sale) Gross() (money.Cents, error) {
	var total money.Cents
	for _, it := range s.Items {
		sub, err := it.Subtotal()
		if err != nil {
			return 0, err
		}
		if total, err = money.Add(total, sub); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Paid suma de pagos convertidos a moneda base.
func (s Sale) Paid() (money.Cents, error) {
	var total money.Cents
	for _, p := range s.Payments {
		var err error
		if total, err = money.Add(total, p.AmountBase); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Change vuelto entregado (pagado − total).
func (s Sale) Change() (money.Cents, error) {
	paid, err := s.Paid()
	if err != nil {
		return 0, err
	}
	return money.Add(paid, -s.Total)
}

// SaleLineItem línea de venta con el precio unitario congelado al momento de la venta.
type SaleLineItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   money.Cents
}

// Subtotal precio × cantidad, multiplicación entera; domain.ErrInvalidAmount si desborda.
func (i SaleLineItem) Subtotal() (money.Cents, error) {
	return i.UnitPrice.Mul(i.Quantity)
}

// PaymentLine pago en una moneda. Rate es la tasa resuelta (nil en moneda base);
// AmountBase el valor convertido a céntimos de la moneda base.
type PaymentLine struct {
	ID         string
	SaleID     string
	Currency   string
	Amount     decimal.Decimal
	Rate       *decimal.Decimal
	AmountBase money.Cents
}
