package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// SettingsUseCase consulta y cambia la tasa de cambio por defecto de la tienda.
type SettingsUseCase struct {
	repo      repository.SettingsRepository
	rates     *sales.RateProvider
	converter currency.Converter
	log       zerolog.Logger
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, rates *sales.RateProvider, converter currency.Converter, log zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, rates: rates, converter: converter, log: log}
}

// GetExchangeRate tasa vigente (settings o, en su defecto, configuración).
func (uc *SettingsUseCase) GetExchangeRate(ctx context.Context) (*dto.ExchangeRateResponse, error) {
	rate, source, err := uc.rates.DefaultRate(ctx, uc.repo)
	if err != nil {
		return nil, err
	}
	out := &dto.ExchangeRateResponse{
		BaseCurrency:    uc.converter.Base,
		ForeignCurrency: uc.converter.Foreign,
		Source:          source,
	}
	if rate.IsPositive() {
		out.Rate = &rate
	}
	return out, nil
}

// SetExchangeRate guarda la tasa por defecto; debe ser positiva.
func (uc *SettingsUseCase) SetExchangeRate(ctx context.Context, userID string, in dto.SetExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	if !in.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidExchangeRate, in.Rate)
	}
	if err := uc.repo.SetDefaultExchangeRate(ctx, in.Rate); err != nil {
		return nil, err
	}
	uc.log.Info().Str("rate", in.Rate.String()).Str("user_id", userID).Msg("tasa de cambio por defecto actualizada")
	return uc.GetExchangeRate(ctx)
}
