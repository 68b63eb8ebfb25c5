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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, quantity, unit_cost, sale_price, category_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Quantity, p.UnitCost, p.SalePrice, p.CategoryID, p.CreatedAt, p.UpdatedAt,
	)
	return wrapErr("insert product", err)
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) get(ctx context.Context, query, id string) (*entity.Product, error) {
	var row productRow
	if err := r.q.QueryRow(ctx, query, id).Scan(row.dest()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return productFromRow(row)
}

// UpdateQuantity fija la existencia; el CHECK (quantity >= 0) de la tabla es la última barrera.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return wrapErr("update product quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return nil
}

// UpdateStockAndCost fija existencia y costo promedio en una sola sentencia.
func (r *ProductRepo) UpdateStockAndCost(ctx context.Context, id string, quantity int64, unitCost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $2, unit_cost = $3, updated_at = now() WHERE id = $1`,
		id, quantity, unitCost)
	if err != nil {
		return wrapErr("update product stock and cost", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return nil
}

// UpdatePrices reemplaza precio de venta y costo (NULL si vienen nil).
func (r *ProductRepo) UpdatePrices(ctx context.Context, id string, salePrice, unitCost *decimal.Decimal) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET sale_price = $2, unit_cost = $3, updated_at = now() WHERE id = $1`,
		id, salePrice, unitCost)
	if err != nil {
		return wrapErr("update product prices", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	out, err := pgx.CollectRows(rows, rowTo[productRow](productFromRow))
	if err != nil {
		return nil, wrapErr("list products", err)
	}
	return out, nil
}
