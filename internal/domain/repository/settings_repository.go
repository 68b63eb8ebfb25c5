package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// SettingsRepository parámetros del negocio guardados en base de datos.
type SettingsRepository interface {
	// GetDefaultExchangeRate devuelve nil si la tasa no está configurada.
	GetDefaultExchangeRate(ctx context.Context) (*decimal.Decimal, error)
	SetDefaultExchangeRate(ctx context.Context, rate decimal.Decimal) error
}
