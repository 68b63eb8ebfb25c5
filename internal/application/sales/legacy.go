package sales

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// Formato de las columnas items_json / payments_json de ventas anteriores a las tablas normalizadas.
// Los montos venían en unidades de presentación como números JSON.
type legacyItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type legacyPayment struct {
	Currency   string   `json:"currency"`
	Amount     float64  `json:"amount"`
	Rate       *float64 `json:"rate"`
	AmountBase *float64 `json:"amount_base"`
}

// decodeLegacyItems un blob ilegible produce una colección vacía, nunca un error.
func decodeLegacyItems(saleID string, raw []byte, log zerolog.Logger) []entity.SaleLineItem {
	var rows []legacyItem
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn().Err(err).Str("sale_id", saleID).Msg("items_json ilegible, se ignora")
		return []entity.SaleLineItem{}
	}
	out := make([]entity.SaleLineItem, 0, len(rows))
	for _, r := range rows {
		price, err := money.ToMinorUnits(r.UnitPrice)
		if err != nil || r.ProductID == "" || r.Quantity <= 0 {
			log.Warn().Str("sale_id", saleID).Msg("items_json con líneas inválidas, se ignora")
			return []entity.SaleLineItem{}
		}
		out = append(out, entity.SaleLineItem{
			SaleID:      saleID,
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Quantity:    r.Quantity,
			UnitPrice:   price,
		})
	}
	if _, err := (entity.Sale{Items: out}).Gross(); err != nil {
		log.Warn().Err(err).Str("sale_id", saleID).Msg("items_json con montos fuera de rango, se ignora")
		return []entity.SaleLineItem{}
	}
	return out
}

// decodeLegacyPayments amount_base guardado manda; solo si falta se recalcula con la tasa de la propia línea.
func decodeLegacyPayments(saleID string, raw []byte, conv currency.Converter, log zerolog.Logger) []entity.PaymentLine {
	var rows []legacyPayment
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn().Err(err).Str("sale_id", saleID).Msg("payments_json ilegible, se ignora")
		return []entity.PaymentLine{}
	}
	out := make([]entity.PaymentLine, 0, len(rows))
	var paid money.Cents
	for _, r := range rows {
		c, err := legacyConverted(r, conv)
		if err == nil {
			paid, err = money.Add(paid, c.AmountBase)
		}
		if err != nil {
			log.Warn().Err(err).Str("sale_id", saleID).Msg("payments_json con pagos inválidos, se ignora")
			return []entity.PaymentLine{}
		}
		out = append(out, entity.PaymentLine{
			SaleID:     saleID,
			Currency:   c.Currency,
			Amount:     c.Amount,
			Rate:       c.Rate,
			AmountBase: c.AmountBase,
		})
	}
	return out
}

func legacyConverted(r legacyPayment, conv currency.Converter) (currency.Converted, error) {
	p := currency.Payment{Currency: r.Currency, Amount: decimal.NewFromFloat(r.Amount)}
	if r.Rate != nil {
		rate := decimal.NewFromFloat(*r.Rate)
		p.Rate = &rate
	}
	if r.AmountBase == nil {
		return conv.Convert(p, decimal.Zero)
	}

	code, err := conv.Code(p.Currency)
	if err != nil {
		return currency.Converted{}, err
	}
	amount := p.Amount.RoundBank(currency.AmountScale)
	if !amount.IsPositive() {
		return currency.Converted{}, fmt.Errorf("%w: %s %s", domain.ErrInvalidPaymentAmount, amount, code)
	}
	base, err := money.ToMinorUnits(*r.AmountBase)
	if err != nil {
		return currency.Converted{}, err
	}
	c := currency.Converted{Currency: code, Amount: amount, AmountBase: base}
	if p.Rate != nil && code == conv.Foreign {
		rate := p.Rate.RoundBank(currency.RateScale)
		c.Rate = &rate
	}
	return c, nil
}
