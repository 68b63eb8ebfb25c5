package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ── Productos ────────────────────────────────────────────────────────────────

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct{ a *access }

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrConflict)
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.a.with(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria el bloqueo lo da el mutex del Store.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	return r.update(id, func(p *entity.Product) { p.Quantity = quantity })
}

func (r *ProductRepository) UpdateStockAndCost(_ context.Context, id string, quantity int64, unitCost decimal.Decimal) error {
	return r.update(id, func(p *entity.Product) {
		p.Quantity = quantity
		p.UnitCost = &unitCost
	})
}

func (r *ProductRepository) UpdatePrices(_ context.Context, id string, salePrice, unitCost *decimal.Decimal) error {
	return r.update(id, func(p *entity.Product) {
		p.SalePrice = salePrice
		p.UnitCost = unitCost
	})
}

func (r *ProductRepository) update(id string, fn func(p *entity.Product)) error {
	return r.a.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		fn(&p)
		p.UpdatedAt = time.Now().UTC()
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepository) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.a.with(func(st *state) error {
		for _, p := range st.products {
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

// ── Insumos ──────────────────────────────────────────────────────────────────

// RawMaterialRepository implementación en memoria de repository.RawMaterialRepository.
type RawMaterialRepository struct{ a *access }

var _ repository.RawMaterialRepository = (*RawMaterialRepository)(nil)

func (r *RawMaterialRepository) Create(_ context.Context, rm *entity.RawMaterial) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.rawMaterials[rm.ID]; ok {
			return fmt.Errorf("insumo %s: %w", rm.ID, domain.ErrConflict)
		}
		st.rawMaterials[rm.ID] = *rm
		return nil
	})
}

func (r *RawMaterialRepository) GetByID(_ context.Context, id string) (*entity.RawMaterial, error) {
	var out *entity.RawMaterial
	err := r.a.with(func(st *state) error {
		if rm, ok := st.rawMaterials[id]; ok {
			out = &rm
		}
		return nil
	})
	return out, err
}

func (r *RawMaterialRepository) GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.GetByID(ctx, id)
}

func (r *RawMaterialRepository) UpdateStockAndCost(_ context.Context, id string, stock, unitCost decimal.Decimal) error {
	return r.a.with(func(st *state) error {
		rm, ok := st.rawMaterials[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrRawMaterialNotFound, id)
		}
		rm.Stock, rm.UnitCost = stock, unitCost
		rm.UpdatedAt = time.Now().UTC()
		st.rawMaterials[id] = rm
		return nil
	})
}

func (r *RawMaterialRepository) List(_ context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	var out []*entity.RawMaterial
	err := r.a.with(func(st *state) error {
		for _, rm := range st.rawMaterials {
			out = append(out, &rm)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), err
}

// ── Kardex ───────────────────────────────────────────────────────────────────

// StockMovementRepository implementación en memoria del kardex.
type StockMovementRepository struct{ a *access }

var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

func (r *StockMovementRepository) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.with(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ListByItem más recientes primero; limit <= 0 devuelve todos.
func (r *StockMovementRepository) ListByItem(_ context.Context, kind, itemID string, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.a.with(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.ItemKind == kind && m.ItemID == itemID {
				out = append(out, &m)
			}
		}
		return nil
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

// ── Ventas ───────────────────────────────────────────────────────────────────

// SaleRepository implementación en memoria de repository.SaleRepository.
type SaleRepository struct{ a *access }

var _ repository.SaleRepository = (*SaleRepository)(nil)

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return fmt.Errorf("venta %s: %w", sale.ID, domain.ErrConflict)
		}
		if sale.OrderID != nil {
			for _, row := range st.sales {
				if row.header.OrderID != nil && *row.header.OrderID == *sale.OrderID {
					return fmt.Errorf("el encargo %s ya tiene venta: %w", *sale.OrderID, domain.ErrConflict)
				}
			}
		}
		header := *sale
		header.Items, header.Payments = nil, nil
		st.sales[sale.ID] = saleRow{header: header}
		st.saleItems[sale.ID] = append([]entity.SaleLineItem(nil), sale.Items...)
		st.salePayments[sale.ID] = append([]entity.PaymentLine(nil), sale.Payments...)
		return nil
	})
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*repository.SaleRecord, error) {
	var out *repository.SaleRecord
	err := r.a.with(func(st *state) error {
		if row, ok := st.sales[id]; ok {
			out = row.record()
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) GetItems(_ context.Context, saleID string) ([]entity.SaleLineItem, error) {
	var out []entity.SaleLineItem
	err := r.a.with(func(st *state) error {
		out = append(out, st.saleItems[saleID]...)
		return nil
	})
	return out, err
}

func (r *SaleRepository) GetPayments(_ context.Context, saleID string) ([]entity.PaymentLine, error) {
	var out []entity.PaymentLine
	err := r.a.with(func(st *state) error {
		out = append(out, st.salePayments[saleID]...)
		return nil
	})
	return out, err
}

func (r *SaleRepository) ListByDateRange(_ context.Context, from, to time.Time) ([]*repository.SaleRecord, error) {
	var out []*repository.SaleRecord
	err := r.a.with(func(st *state) error {
		for _, row := range st.sales {
			if inRange(row.header.CreatedAt, from, to) {
				out = append(out, row.record())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

// Delete borra la venta con sus líneas y pagos; los encargos que la referencian quedan con SaleID nil.
func (r *SaleRepository) Delete(_ context.Context, id string) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, id)
		}
		delete(st.sales, id)
		delete(st.saleItems, id)
		delete(st.salePayments, id)
		for oid, o := range st.orders {
			if o.SaleID != nil && *o.SaleID == id {
				o.SaleID = nil
				st.orders[oid] = o
			}
		}
		return nil
	})
}

func (row saleRow) record() *repository.SaleRecord {
	return &repository.SaleRecord{
		Sale:           row.header,
		LegacyItems:    row.legacyItems,
		LegacyPayments: row.legacyPayments,
	}
}

// ── Encargos ─────────────────────────────────────────────────────────────────

// OrderRepository implementación en memoria de repository.OrderRepository.
type OrderRepository struct{ a *access }

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(_ context.Context, o *entity.Order) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return fmt.Errorf("encargo %s: %w", o.ID, domain.ErrConflict)
		}
		cp := *o
		cp.Items = append([]entity.OrderLineItem(nil), o.Items...)
		st.orders[o.ID] = cp
		return nil
	})
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.a.with(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			o.Items = append([]entity.OrderLineItem(nil), o.Items...)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) UpdateState(_ context.Context, o *entity.Order) error {
	return r.a.with(func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, o.ID)
		}
		if !cur.IsPending() {
			return domain.ErrOrderNotPending
		}
		cur.Status = o.Status
		cur.SaleID = o.SaleID
		st.orders[o.ID] = cur
		return nil
	})
}

func (r *OrderRepository) AddDeposit(_ context.Context, d *entity.Deposit) error {
	return r.a.with(func(st *state) error {
		if _, ok := st.orders[d.OrderID]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, d.OrderID)
		}
		st.deposits[d.OrderID] = append(st.deposits[d.OrderID], *d)
		return nil
	})
}

func (r *OrderRepository) ListDeposits(_ context.Context, orderID string) ([]entity.Deposit, error) {
	var out []entity.Deposit
	err := r.a.with(func(st *state) error {
		out = append(out, st.deposits[orderID]...)
		return nil
	})
	return out, err
}

func (r *OrderRepository) ListByDeliveryRange(_ context.Context, from, to time.Time) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.a.with(func(st *state) error {
		for _, o := range st.orders {
			if inRange(o.DeliveryDate, from, to) {
				o.Items = append([]entity.OrderLineItem(nil), o.Items...)
				out = append(out, &o)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DeliveryDate.Before(out[j].DeliveryDate) })
	return out, err
}

// ── Parámetros ───────────────────────────────────────────────────────────────

// SettingsRepository implementación en memoria de repository.SettingsRepository.
type SettingsRepository struct{ a *access }

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

func (r *SettingsRepository) GetDefaultExchangeRate(_ context.Context) (*decimal.Decimal, error) {
	var out *decimal.Decimal
	err := r.a.with(func(st *state) error {
		if st.exchangeRate != nil {
			v := *st.exchangeRate
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *SettingsRepository) SetDefaultExchangeRate(_ context.Context, rate decimal.Decimal) error {
	return r.a.with(func(st *state) error {
		st.exchangeRate = &rate
		return nil
	})
}

// ── utilidades ───────────────────────────────────────────────────────────────

// inRange intervalo semiabierto [from, to).
func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
