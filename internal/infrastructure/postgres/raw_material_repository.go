package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

const rawMaterialColumns = `id, name, unit, stock, unit_cost, created_at, updated_at`

// RawMaterialRepo insumos sobre PostgreSQL.
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

func (r *RawMaterialRepo) Create(ctx context.Context, rm *entity.RawMaterial) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO raw_materials (`+rawMaterialColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rm.ID, rm.Name, rm.Unit, rm.Stock, rm.UnitCost, rm.CreatedAt, rm.UpdatedAt,
	)
	return wrapErr("insert raw material", err)
}

func (r *RawMaterialRepo) GetByID(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.get(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1`, id)
}

func (r *RawMaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.RawMaterial, error) {
	return r.get(ctx, `SELECT `+rawMaterialColumns+` FROM raw_materials WHERE id = $1 FOR UPDATE`, id)
}

func (r *RawMaterialRepo) get(ctx context.Context, query, id string) (*entity.RawMaterial, error) {
	var row rawMaterialRow
	if err := r.q.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get raw material", err)
	}
	return rawMaterialFromRow(row)
}

func (r *RawMaterialRepo) UpdateStockAndCost(ctx context.Context, id string, stock, unitCost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE raw_materials SET stock = $2, unit_cost = $3, updated_at = now() WHERE id = $1`,
		id, stock, unitCost)
	if err != nil {
		return wrapErr("update raw material", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrRawMaterialNotFound, id)
	}
	return nil
}

func (r *RawMaterialRepo) List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+rawMaterialColumns+` FROM raw_materials ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapErr("list raw materials", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[rawMaterialRow](rawMaterialFromRow))
	if err != nil {
		return nil, wrapErr("list raw materials", err)
	}
	return out, nil
}
