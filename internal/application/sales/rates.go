package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Orígenes de la tasa por defecto.
const (
	RateSourceSettings = "settings"
	RateSourceConfig   = "config"
)

// RateProvider resuelve la tasa por defecto: primero la guardada en settings, si no la de configuración.
type RateProvider struct {
	fallback decimal.Decimal
}

// NewRateProvider fallback es SALES_DEFAULT_EXCHANGE_RATE (puede ser cero: entonces los pagos
// en moneda extranjera deben traer tasa explícita).
func NewRateProvider(fallback decimal.Decimal) *RateProvider {
	return &RateProvider{fallback: fallback}
}

// DefaultRate devuelve la tasa vigente y su origen.
func (r *RateProvider) DefaultRate(ctx context.Context, settings repository.SettingsRepository) (decimal.Decimal, string, error) {
	rate, err := settings.GetDefaultExchangeRate(ctx)
	if err != nil {
		return decimal.Zero, "", err
	}
	if rate != nil && rate.IsPositive() {
		return *rate, RateSourceSettings, nil
	}
	return r.fallback, RateSourceConfig, nil
}
