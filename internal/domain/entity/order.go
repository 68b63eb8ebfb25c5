package entity

import (
	"time"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// Estados del encargo. PENDING es el inicial; FULFILLED y CANCELLED son terminales.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCancelled = "CANCELLED"
)

// Order encargo (pedido anticipado) con precios congelados al crearse.
type Order struct {
	ID             string
	CustomerName   string
	DeliveryDate   time.Time
	EstimatedTotal money.Cents
	Status         string
	SaleID         *string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	Items          []OrderLineItem
}

// IsPending indica si el encargo aún admite abonos, finalización o cancelación.
func (o Order) IsPending() bool { return o.Status == OrderStatusPending }

// Fulfill devuelve una copia del encargo marcada como entregada y enlazada a la venta.
func (o Order) Fulfill(saleID string) (Order, error) {
	if !o.IsPending() {
		return o, domain.ErrOrderNotPending
	}
	o.Status = OrderStatusFulfilled
	o.SaleID = &saleID
	return o, nil
}

// Cancel devuelve una copia del encargo cancelada. Los abonos no se tocan.
func (o Order) Cancel() (Order, error) {
	if !o.IsPending() {
		return o, domain.ErrOrderNotPending
	}
	o.Status = OrderStatusCancelled
	return o, nil
}

// OrderLineItem línea del encargo con el precio estimado congelado.
type OrderLineItem struct {
	ID                 string
	OrderID            string
	ProductID          string
	Quantity           int64
	EstimatedUnitPrice money.Cents
}

// Subtotal precio estimado × cantidad; domain.ErrInvalidAmount si desborda.
func (i OrderLineItem) Subtotal() (money.Cents, error) {
	return i.EstimatedUnitPrice.Mul(i.Quantity)
}

// ItemsTotal suma de subtotales de las líneas.
func (o Order) ItemsTotal() (money.Cents, error) {
	var total money.Cents
	for _, it := range o.Items {
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

// Deposit abono inmutable contra un encargo pendiente.
type Deposit struct {
	ID        string
	OrderID   string
	Amount    money.Cents
	Method    string
	CreatedAt time.Time
}
