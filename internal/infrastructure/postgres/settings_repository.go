package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

const keyDefaultExchangeRate = "default_exchange_rate"

// SettingsRepo tabla clave/valor settings.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// GetDefaultExchangeRate nil si la clave no existe. Un valor no numérico o <= 0 es registro corrupto.
func (r *SettingsRepo) GetDefaultExchangeRate(ctx context.Context) (*decimal.Decimal, error) {
	var raw string
	err := r.q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, keyDefaultExchangeRate).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get exchange rate", err)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		return nil, corrupt("ajuste", keyDefaultExchangeRate, "valor %q", raw)
	}
	return &rate, nil
}

func (r *SettingsRepo) SetDefaultExchangeRate(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return domain.ErrInvalidExchangeRate
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		keyDefaultExchangeRate, rate.String())
	return wrapErr("set exchange rate", err)
}
