package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, total_cents, discount_cents, status, kind, order_id, user_id, items_json, payments_json, created_at`

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera, líneas y pagos en un solo batch. Las columnas items_json/payments_json
// quedan en NULL: los registros nuevos solo usan las tablas normalizadas.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO sales (id, total_cents, discount_cents, status, kind, order_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, int64(s.Total), int64(s.Discount), s.Status, s.Kind, s.OrderID, s.UserID, s.CreatedAt,
	)
	for i, it := range s.Items {
		b.Queue(`
			INSERT INTO sale_items (id, sale_id, position, product_id, product_name, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, s.ID, i, it.ProductID, it.ProductName, it.Quantity, int64(it.UnitPrice),
		)
	}
	for i, p := range s.Payments {
		b.Queue(`
			INSERT INTO sale_payments (id, sale_id, position, currency, amount, rate, amount_base_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, s.ID, i, p.Currency, p.Amount, p.Rate, int64(p.AmountBase),
		)
	}

	br := r.q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapErr("insert sale", err)
		}
	}
	return wrapErr("insert sale", br.Close())
}

// GetByID devuelve la cabecera con sus blobs heredados.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*repository.SaleRecord, error) {
	var row saleRow
	err := r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	return saleFromRow(row)
}

// GetItems líneas normalizadas en el orden original.
func (r *SaleRepo) GetItems(ctx context.Context, saleID string) ([]entity.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price_cents
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, wrapErr("get sale items", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[saleItemRow](saleItemFromRow))
	if err != nil {
		return nil, wrapErr("get sale items", err)
	}
	return out, nil
}

// GetPayments pagos normalizados en el orden original.
func (r *SaleRepo) GetPayments(ctx context.Context, saleID string) ([]entity.PaymentLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, currency, amount, rate, amount_base_cents
		FROM sale_payments WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, wrapErr("get sale payments", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[paymentRow](paymentFromRow))
	if err != nil {
		return nil, wrapErr("get sale payments", err)
	}
	return out, nil
}

// ListByDateRange cabeceras con created_at en [from, to), más recientes primero.
func (r *SaleRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*repository.SaleRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC, id`, from, to)
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[saleRow](saleFromRow))
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	return out, nil
}

// Delete borra la venta; líneas y pagos caen por ON DELETE CASCADE y orders.sale_id queda en NULL.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete sale", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrSaleNotFound, id)
	}
	return nil
}
