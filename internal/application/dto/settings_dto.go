package dto

import "github.com/shopspring/decimal"

// ExchangeRateResponse tasa por defecto vigente y su origen ("settings" o "config").
type ExchangeRateResponse struct {
	BaseCurrency    string           `json:"base_currency"`
	ForeignCurrency string           `json:"foreign_currency"`
	Rate            *decimal.Decimal `json:"rate"`
	Source          string           `json:"source"`
}

// SetExchangeRateRequest body para PUT /api/settings/exchange-rate.
type SetExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}
