package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, item_kind, item_id, type, quantity, unit_cost, reference, created_by, created_at`

// StockMovementRepo kardex sobre PostgreSQL (solo INSERT y SELECT).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.ItemKind, m.ItemID, m.Type, m.Quantity, m.UnitCost, m.Reference, m.CreatedBy, m.CreatedAt,
	)
	return wrapErr("insert stock movement", err)
}

// ListByItem más recientes primero; limit <= 0 devuelve todos.
func (r *StockMovementRepo) ListByItem(ctx context.Context, kind, itemID string, limit int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE item_kind = $1 AND item_id = $2
		ORDER BY created_at DESC, id`
	args := []any{kind, itemID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list stock movements", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[movementRow](movementFromRow))
	if err != nil {
		return nil, wrapErr("list stock movements", err)
	}
	return out, nil
}
