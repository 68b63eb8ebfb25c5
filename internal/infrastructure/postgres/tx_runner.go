package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El Rollback diferido también cubre un panic dentro de fn.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// NewRepos agrupa los repositorios sobre un Querier (pool para lecturas, tx dentro de Run).
func NewRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Products:     NewProductRepository(q),
		RawMaterials: NewRawMaterialRepository(q),
		Movements:    NewStockMovementRepository(q),
		Sales:        NewSaleRepository(q),
		Orders:       NewOrderRepository(q),
		Settings:     NewSettingsRepository(q),
	}
}

// Pinger comprobación de salud del pool.
type Pinger struct{ pool *pgxpool.Pool }

// NewPinger envuelve el pool para el endpoint /health.
func NewPinger(pool *pgxpool.Pool) *Pinger { return &Pinger{pool: pool} }

// Ping verifica la conexión con la base de datos.
func (p *Pinger) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping DB: %w", err)
	}
	return nil
}
