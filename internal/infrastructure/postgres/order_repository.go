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

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, customer_name, delivery_date, estimated_total_cents, status, sale_id, notes, created_by, created_at`

// OrderRepo encargos y abonos sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el encargo y sus líneas en un batch.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	b := &pgx.Batch{}
	b.Queue(`
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.CustomerName, o.DeliveryDate, int64(o.EstimatedTotal), o.Status, o.SaleID, o.Notes, o.CreatedBy, o.CreatedAt,
	)
	for i, it := range o.Items {
		b.Queue(`
			INSERT INTO order_items (id, order_id, position, product_id, quantity, estimated_unit_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, o.ID, i, it.ProductID, it.Quantity, int64(it.EstimatedUnitPrice),
		)
	}
	br := r.q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return wrapErr("insert order", err)
		}
	}
	return wrapErr("insert order", br.Close())
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea solo la fila del encargo; las líneas son inmutables.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	var row orderRow
	if err := r.q.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get order", err)
	}
	o, err := orderFromRow(row)
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, estimated_unit_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, wrapErr("get order items", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[orderItemRow](orderItemFromRow))
	if err != nil {
		return nil, wrapErr("get order items", err)
	}
	return out, nil
}

// UpdateState transición condicional: solo afecta filas todavía PENDING.
func (r *OrderRepo) UpdateState(ctx context.Context, o *entity.Order) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, sale_id = $3 WHERE id = $1 AND status = $4`,
		o.ID, o.Status, o.SaleID, entity.OrderStatusPending)
	if err != nil {
		return wrapErr("update order state", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, o.ID).Scan(&exists); err != nil {
		return wrapErr("update order state", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, o.ID)
	}
	return domain.ErrOrderNotPending
}

func (r *OrderRepo) AddDeposit(ctx context.Context, d *entity.Deposit) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_deposits (id, order_id, amount_cents, method, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.OrderID, int64(d.Amount), d.Method, d.CreatedAt,
	)
	return wrapErr("insert deposit", err)
}

// ListDeposits abonos en orden de registro.
func (r *OrderRepo) ListDeposits(ctx context.Context, orderID string) ([]entity.Deposit, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, amount_cents, method, created_at
		FROM order_deposits WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, wrapErr("list deposits", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[depositRow](depositFromRow))
	if err != nil {
		return nil, wrapErr("list deposits", err)
	}
	return out, nil
}

// ListByDeliveryRange encargos con delivery_date en [from, to), por fecha de entrega.
func (r *OrderRepo) ListByDeliveryRange(ctx context.Context, from, to time.Time) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE delivery_date >= $1 AND delivery_date < $2
		ORDER BY delivery_date, id`, from, to)
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	orders, err := pgx.CollectRows(rows, rowTo[orderRow](orderFromRow))
	if err != nil {
		return nil, wrapErr("list orders", err)
	}
	for _, o := range orders {
		if o.Items, err = r.items(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
