package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Filas tal como salen de la base. Cada entidad tiene una única función de mapeo
// que valida enums y montos: un valor fuera de rango es ErrCorruptRecord, nunca un default silencioso.

type productRow struct {
	ID         string
	Name       string
	Quantity   int64
	UnitCost   decimal.NullDecimal
	SalePrice  decimal.NullDecimal
	CategoryID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *productRow) dest() []any {
	return []any{&r.ID, &r.Name, &r.Quantity, &r.UnitCost, &r.SalePrice, &r.CategoryID, &r.CreatedAt, &r.UpdatedAt}
}

func productFromRow(r productRow) (*entity.Product, error) {
	if r.Quantity < 0 {
		return nil, corrupt("producto", r.ID, "cantidad negativa %d", r.Quantity)
	}
	p := &entity.Product{
		ID:         r.ID,
		Name:       r.Name,
		Quantity:   r.Quantity,
		CategoryID: r.CategoryID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.UnitCost.Valid {
		if r.UnitCost.Decimal.IsNegative() {
			return nil, corrupt("producto", r.ID, "costo negativo %s", r.UnitCost.Decimal)
		}
		v := r.UnitCost.Decimal
		p.UnitCost = &v
	}
	if r.SalePrice.Valid {
		if r.SalePrice.Decimal.IsNegative() {
			return nil, corrupt("producto", r.ID, "precio negativo %s", r.SalePrice.Decimal)
		}
		v := r.SalePrice.Decimal
		p.SalePrice = &v
	}
	return p, nil
}

type rawMaterialRow struct {
	ID        string
	Name      string
	Unit      string
	Stock     decimal.Decimal
	UnitCost  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *rawMaterialRow) dest() []any {
	return []any{&r.ID, &r.Name, &r.Unit, &r.Stock, &r.UnitCost, &r.CreatedAt, &r.UpdatedAt}
}

func rawMaterialFromRow(r rawMaterialRow) (*entity.RawMaterial, error) {
	if r.Stock.IsNegative() {
		return nil, corrupt("insumo", r.ID, "stock negativo %s", r.Stock)
	}
	if r.UnitCost.IsNegative() {
		return nil, corrupt("insumo", r.ID, "costo negativo %s", r.UnitCost)
	}
	return &entity.RawMaterial{
		ID:        r.ID,
		Name:      r.Name,
		Unit:      r.Unit,
		Stock:     r.Stock,
		UnitCost:  r.UnitCost,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

type movementRow struct {
	ID        string
	ItemKind  string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Reference string
	CreatedBy string
	CreatedAt time.Time
}

func (r *movementRow) dest() []any {
	return []any{&r.ID, &r.ItemKind, &r.ItemID, &r.Type, &r.Quantity, &r.UnitCost, &r.Reference, &r.CreatedBy, &r.CreatedAt}
}

func movementFromRow(r movementRow) (*entity.StockMovement, error) {
	switch r.ItemKind {
	case entity.ItemKindProduct, entity.ItemKindRawMaterial:
	default:
		return nil, corrupt("movimiento", r.ID, "item_kind %q", r.ItemKind)
	}
	switch r.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
	default:
		return nil, corrupt("movimiento", r.ID, "type %q", r.Type)
	}
	if !r.Quantity.IsPositive() {
		return nil, corrupt("movimiento", r.ID, "cantidad %s", r.Quantity)
	}
	return &entity.StockMovement{
		ID:        r.ID,
		ItemKind:  r.ItemKind,
		ItemID:    r.ItemID,
		Type:      r.Type,
		Quantity:  r.Quantity,
		UnitCost:  r.UnitCost,
		Reference: r.Reference,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}, nil
}

type saleRow struct {
	ID            string
	TotalCents    int64
	DiscountCents int64
	Status        string
	Kind          string
	OrderID       *string
	UserID        string
	ItemsJSON     []byte
	PaymentsJSON  []byte
	CreatedAt     time.Time
}

func (r *saleRow) dest() []any {
	return []any{&r.ID, &r.TotalCents, &r.DiscountCents, &r.Status, &r.Kind, &r.OrderID, &r.UserID, &r.ItemsJSON, &r.PaymentsJSON, &r.CreatedAt}
}

func saleFromRow(r saleRow) (*repository.SaleRecord, error) {
	if r.TotalCents < 0 || r.DiscountCents < 0 {
		return nil, corrupt("venta", r.ID, "montos negativos total=%d descuento=%d", r.TotalCents, r.DiscountCents)
	}
	if r.Status != entity.SaleStatusComplete {
		return nil, corrupt("venta", r.ID, "status %q", r.Status)
	}
	switch r.Kind {
	case entity.SaleKindDirect:
	case entity.SaleKindFromOrder:
		if r.OrderID == nil {
			return nil, corrupt("venta", r.ID, "venta de encargo sin order_id")
		}
	default:
		return nil, corrupt("venta", r.ID, "kind %q", r.Kind)
	}
	return &repository.SaleRecord{
		Sale: entity.Sale{
			ID:        r.ID,
			Total:     money.Cents(r.TotalCents),
			Discount:  money.Cents(r.DiscountCents),
			CreatedAt: r.CreatedAt,
			UserID:    r.UserID,
			Status:    r.Status,
			Kind:      r.Kind,
			OrderID:   r.OrderID,
		},
		LegacyItems:    r.ItemsJSON,
		LegacyPayments: r.PaymentsJSON,
	}, nil
}

type saleItemRow struct {
	ID             string
	SaleID         string
	ProductID      string
	ProductName    string
	Quantity       int64
	UnitPriceCents int64
}

func (r *saleItemRow) dest() []any {
	return []any{&r.ID, &r.SaleID, &r.ProductID, &r.ProductName, &r.Quantity, &r.UnitPriceCents}
}

func saleItemFromRow(r saleItemRow) (entity.SaleLineItem, error) {
	if r.Quantity <= 0 {
		return entity.SaleLineItem{}, corrupt("línea de venta", r.ID, "cantidad %d", r.Quantity)
	}
	if r.UnitPriceCents < 0 {
		return entity.SaleLineItem{}, corrupt("línea de venta", r.ID, "precio %d", r.UnitPriceCents)
	}
	return entity.SaleLineItem{
		ID:          r.ID,
		SaleID:      r.SaleID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   money.Cents(r.UnitPriceCents),
	}, nil
}

type paymentRow struct {
	ID              string
	SaleID          string
	Currency        string
	Amount          decimal.Decimal
	Rate            decimal.NullDecimal
	AmountBaseCents int64
}

func (r *paymentRow) dest() []any {
	return []any{&r.ID, &r.SaleID, &r.Currency, &r.Amount, &r.Rate, &r.AmountBaseCents}
}

func paymentFromRow(r paymentRow) (entity.PaymentLine, error) {
	if r.Currency == "" {
		return entity.PaymentLine{}, corrupt("pago", r.ID, "sin moneda")
	}
	if !r.Amount.IsPositive() || r.AmountBaseCents < 0 {
		return entity.PaymentLine{}, corrupt("pago", r.ID, "monto %s base %d", r.Amount, r.AmountBaseCents)
	}
	p := entity.PaymentLine{
		ID:         r.ID,
		SaleID:     r.SaleID,
		Currency:   r.Currency,
		Amount:     r.Amount,
		AmountBase: money.Cents(r.AmountBaseCents),
	}
	if r.Rate.Valid {
		if !r.Rate.Decimal.IsPositive() {
			return entity.PaymentLine{}, corrupt("pago", r.ID, "tasa %s", r.Rate.Decimal)
		}
		v := r.Rate.Decimal
		p.Rate = &v
	}
	return p, nil
}

type orderRow struct {
	ID                  string
	CustomerName        string
	DeliveryDate        time.Time
	EstimatedTotalCents int64
	Status              string
	SaleID              *string
	Notes               string
	CreatedBy           string
	CreatedAt           time.Time
}

func (r *orderRow) dest() []any {
	return []any{&r.ID, &r.CustomerName, &r.DeliveryDate, &r.EstimatedTotalCents, &r.Status, &r.SaleID, &r.Notes, &r.CreatedBy, &r.CreatedAt}
}

func orderFromRow(r orderRow) (*entity.Order, error) {
	switch r.Status {
	case entity.OrderStatusPending, entity.OrderStatusFulfilled, entity.OrderStatusCancelled:
	default:
		return nil, corrupt("encargo", r.ID, "status %q", r.Status)
	}
	if r.EstimatedTotalCents < 0 {
		return nil, corrupt("encargo", r.ID, "total estimado %d", r.EstimatedTotalCents)
	}
	if r.Status == entity.OrderStatusPending && r.SaleID != nil {
		return nil, corrupt("encargo", r.ID, "pendiente con venta %s", *r.SaleID)
	}
	return &entity.Order{
		ID:             r.ID,
		CustomerName:   r.CustomerName,
		DeliveryDate:   r.DeliveryDate,
		EstimatedTotal: money.Cents(r.EstimatedTotalCents),
		Status:         r.Status,
		SaleID:         r.SaleID,
		Notes:          r.Notes,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}, nil
}

type orderItemRow struct {
	ID                      string
	OrderID                 string
	ProductID               string
	Quantity                int64
	EstimatedUnitPriceCents int64
}

func (r *orderItemRow) dest() []any {
	return []any{&r.ID, &r.OrderID, &r.ProductID, &r.Quantity, &r.EstimatedUnitPriceCents}
}

func orderItemFromRow(r orderItemRow) (entity.OrderLineItem, error) {
	if r.Quantity <= 0 || r.EstimatedUnitPriceCents < 0 {
		return entity.OrderLineItem{}, corrupt("línea de encargo", r.ID, "cantidad %d precio %d", r.Quantity, r.EstimatedUnitPriceCents)
	}
	return entity.OrderLineItem{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		ProductID:          r.ProductID,
		Quantity:           r.Quantity,
		EstimatedUnitPrice: money.Cents(r.EstimatedUnitPriceCents),
	}, nil
}

type depositRow struct {
	ID          string
	OrderID     string
	AmountCents int64
	Method      string
	CreatedAt   time.Time
}

func (r *depositRow) dest() []any {
	return []any{&r.ID, &r.OrderID, &r.AmountCents, &r.Method, &r.CreatedAt}
}

func depositFromRow(r depositRow) (entity.Deposit, error) {
	if r.AmountCents <= 0 {
		return entity.Deposit{}, corrupt("abono", r.ID, "monto %d", r.AmountCents)
	}
	return entity.Deposit{
		ID:        r.ID,
		OrderID:   r.OrderID,
		Amount:    money.Cents(r.AmountCents),
		Method:    r.Method,
		CreatedAt: r.CreatedAt,
	}, nil
}
