package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/inventory"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Ledger aplica cambios de existencia sobre los repositorios de la transacción del caller
// y deja un StockMovement por cada cambio. Nunca permite existencias negativas.
type Ledger struct {
	repos  repository.TxRepos
	userID string
	now    time.Time
}

// NewLedger liga el ledger a una transacción; userID queda como autor de los movimientos.
func NewLedger(repos repository.TxRepos, userID string, now time.Time) *Ledger {
	return &Ledger{repos: repos, userID: userID, now: now}
}

// DecrementProduct descuenta qty unidades (salida por venta).
func (l *Ledger) DecrementProduct(ctx context.Context, productID string, qty int64, reference string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := l.lockProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Quantity < qty {
		return nil, fmt.Errorf("%w: %s (disponible %d, solicitado %d)", domain.ErrInsufficientStock, p.Name, p.Quantity, qty)
	}
	p.Quantity -= qty
	if err := l.repos.Products.UpdateQuantity(ctx, p.ID, p.Quantity); err != nil {
		return nil, err
	}
	return p, l.record(ctx, entity.ItemKindProduct, p.ID, entity.MovementTypeOUT, decimal.NewFromInt(qty), costOf(p), reference)
}

// IncrementProduct devuelve qty unidades sin recalcular costo (anulación de venta).
func (l *Ledger) IncrementProduct(ctx context.Context, productID string, qty int64, reference string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	p, err := l.lockProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Quantity += qty
	if err := l.repos.Products.UpdateQuantity(ctx, p.ID, p.Quantity); err != nil {
		return nil, err
	}
	return p, l.record(ctx, entity.ItemKindProduct, p.ID, entity.MovementTypeIN, decimal.NewFromInt(qty), costOf(p), reference)
}

// ReceiveProduct entrada de producto terminado con costo: suma existencia y recalcula el promedio ponderado.
func (l *Ledger) ReceiveProduct(ctx context.Context, productID string, qty int64, unitCost decimal.Decimal, reference string) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	p, err := l.lockProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	newCost := inventory.CostCalculator(decimal.NewFromInt(p.Quantity), costOf(p), decimal.NewFromInt(qty), unitCost)
	p.Quantity += qty
	p.UnitCost = &newCost
	if err := l.repos.Products.UpdateStockAndCost(ctx, p.ID, p.Quantity, newCost); err != nil {
		return nil, err
	}
	return p, l.record(ctx, entity.ItemKindProduct, p.ID, entity.MovementTypeIN, decimal.NewFromInt(qty), unitCost, reference)
}

// ReceiveRawMaterial entrada de insumo (compra): suma stock y recalcula el costo promedio.
func (l *Ledger) ReceiveRawMaterial(ctx context.Context, id string, qty, unitCost decimal.Decimal, reference string) (*entity.RawMaterial, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	rm, err := l.lockRawMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	rm.UnitCost = inventory.CostCalculator(rm.Stock, rm.UnitCost, qty, unitCost)
	rm.Stock = rm.Stock.Add(qty)
	if err := l.repos.RawMaterials.UpdateStockAndCost(ctx, rm.ID, rm.Stock, rm.UnitCost); err != nil {
		return nil, err
	}
	return rm, l.record(ctx, entity.ItemKindRawMaterial, rm.ID, entity.MovementTypeIN, qty, unitCost, reference)
}

// ConsumeRawMaterial salida de insumo hacia producción. Devuelve el costo consumido (qty × costo promedio).
func (l *Ledger) ConsumeRawMaterial(ctx context.Context, id string, qty decimal.Decimal, reference string) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	rm, err := l.lockRawMaterial(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if rm.Stock.LessThan(qty) {
		return decimal.Zero, fmt.Errorf("%w: %s (disponible %s, solicitado %s)", domain.ErrInsufficientStock, rm.Name, rm.Stock, qty)
	}
	rm.Stock = rm.Stock.Sub(qty)
	if err := l.repos.RawMaterials.UpdateStockAndCost(ctx, rm.ID, rm.Stock, rm.UnitCost); err != nil {
		return decimal.Zero, err
	}
	if err := l.record(ctx, entity.ItemKindRawMaterial, rm.ID, entity.MovementTypeOUT, qty, rm.UnitCost, reference); err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(rm.UnitCost), nil
}

func (l *Ledger) lockProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := l.repos.Products.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return p, nil
}

func (l *Ledger) lockRawMaterial(ctx context.Context, id string) (*entity.RawMaterial, error) {
	rm, err := l.repos.RawMaterials.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRawMaterialNotFound, id)
	}
	return rm, nil
}

func (l *Ledger) record(ctx context.Context, kind, itemID, movType string, qty, unitCost decimal.Decimal, reference string) error {
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ItemKind:  kind,
		ItemID:    itemID,
		Type:      movType,
		Quantity:  qty,
		UnitCost:  unitCost,
		Reference: reference,
		CreatedBy: l.userID,
		CreatedAt: l.now,
	}
	return l.repos.Movements.Create(ctx, mov)
}

func costOf(p *entity.Product) decimal.Decimal {
	if p.UnitCost == nil {
		return decimal.Zero
	}
	return *p.UnitCost
}
