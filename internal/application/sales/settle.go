package sales

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// LineInput línea del carrito.
type LineInput struct {
	ProductID string
	Quantity  int64
}

// SettleInput entrada de la liquidación. Kind vacío equivale a DIRECT.
type SettleInput struct {
	UserID   string
	Items    []LineInput
	Payments []currency.Payment
	Discount money.Cents
	Kind     string
	OrderID  *string
}

// SettleResult venta confirmada, total pagado en moneda base y vuelto.
type SettleResult struct {
	Sale   *entity.Sale
	Paid   money.Cents
	Change money.Cents
}

// Settle liquida el carrito en una sola transacción: o se confirma todo
// (stock, cabecera, líneas, pagos) o no queda nada.
func (uc *SaleUseCase) Settle(ctx context.Context, in SettleInput) (*SettleResult, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.Settle")
	defer span.End()

	var res *SettleResult
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		res, err = uc.SettleInTx(ctx, repos, in)
		return err
	})

	kind := kindOrDefault(in.Kind)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Code(err))
		uc.metrics.SettlementObserved(kind, strings.ToLower(domain.Code(err)), 0)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("sale.id", res.Sale.ID),
		attribute.Int64("sale.total_cents", int64(res.Sale.Total)),
	)
	uc.metrics.SettlementObserved(kind, "ok", res.Sale.Total)
	uc.log.Info().
		Str("sale_id", res.Sale.ID).
		Str("kind", kind).
		Int("items", len(res.Sale.Items)).
		Int64("total_cents", int64(res.Sale.Total)).
		Int64("change_cents", int64(res.Change)).
		Msg("venta liquidada")
	return res, nil
}

// SettleInTx ejecuta la liquidación sobre los repositorios de una transacción ya abierta por el caller.
// No confirma ni revierte: eso queda a cargo de quien abrió la transacción.
func (uc *SaleUseCase) SettleInTx(ctx context.Context, repos repository.TxRepos, in SettleInput) (*SettleResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	// 1. Bloquear productos, verificar stock acumulado por producto y congelar precios.
	requested := make(map[string]int64, len(in.Items))
	items := make([]entity.SaleLineItem, 0, len(in.Items))
	for _, line := range in.Items {
		p, err := repos.Products.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		if requested[p.ID] > math.MaxInt64-line.Quantity {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, p.ID)
		}
		requested[p.ID] += line.Quantity
		if p.Quantity < requested[p.ID] {
			return nil, fmt.Errorf("%w: %s (disponible %d, solicitado %d)",
				domain.ErrInsufficientStock, p.Name, p.Quantity, requested[p.ID])
		}
		price, err := pricing.UnitPrice(p)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.SaleLineItem{
			ID:          uuid.New().String(),
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   price,
		})
	}

	// 2. Totales: el descuento nunca supera el bruto.
	gross, err := entity.Sale{Items: items}.Gross()
	if err != nil {
		return nil, err
	}
	discount := money.Min(in.Discount, gross)
	total := gross - discount

	// 3. Pagos a moneda base. La tasa por defecto solo se consulta si algún pago extranjero no trae la suya.
	rate := decimal.Zero
	if uc.converter.NeedsDefaultRate(in.Payments) {
		if rate, _, err = uc.rates.DefaultRate(ctx, repos.Settings); err != nil {
			return nil, err
		}
	}
	converted, paid, err := uc.converter.ConvertAll(in.Payments, rate)
	if err != nil {
		return nil, err
	}
	if paid < total {
		return nil, fmt.Errorf("%w: pagado %s, total %s", domain.ErrInsufficientPayment, paid, total)
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Total:     total,
		Discount:  discount,
		CreatedAt: now,
		UserID:    in.UserID,
		Status:    entity.SaleStatusComplete,
		Kind:      kindOrDefault(in.Kind),
		OrderID:   in.OrderID,
	}
	for i := range items {
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	for _, c := range converted {
		sale.Payments = append(sale.Payments, entity.PaymentLine{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			Currency:   c.Currency,
			Amount:     c.Amount,
			Rate:       c.Rate,
			AmountBase: c.AmountBase,
		})
	}

	// 4. Descontar existencias (kardex con referencia a la venta).
	ledger := inventory.NewLedger(repos, in.UserID, now)
	for _, it := range sale.Items {
		if _, err := ledger.DecrementProduct(ctx, it.ProductID, it.Quantity, sale.ID); err != nil {
			return nil, err
		}
	}

	// 5. Persistir cabecera, líneas y pagos.
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return &SettleResult{Sale: sale, Paid: paid, Change: paid - total}, nil
}

// SettleFromRequest adapta el body HTTP al caso de uso Settle.
func (uc *SaleUseCase) SettleFromRequest(ctx context.Context, userID string, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	discount, err := money.FromDecimal(req.Discount)
	if err != nil {
		return nil, err
	}
	in := SettleInput{
		UserID:   userID,
		Discount: discount,
		Payments: PaymentsFromRequest(req.Payments),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	res, err := uc.Settle(ctx, in)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(res.Sale)
}

// PaymentsFromRequest convierte los pagos del body a pagos de dominio.
func PaymentsFromRequest(in []dto.PaymentRequest) []currency.Payment {
	out := make([]currency.Payment, 0, len(in))
	for _, p := range in {
		out = append(out, currency.Payment{Currency: p.Currency, Amount: p.Amount, Rate: p.Rate})
	}
	return out
}

func validate(in SettleInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: línea sin producto", domain.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, it.ProductID)
		}
	}
	if in.Discount < 0 {
		return domain.ErrInvalidDiscount
	}
	switch in.Kind {
	case "", entity.SaleKindDirect:
		if in.OrderID != nil {
			return fmt.Errorf("%w: venta directa con encargo", domain.ErrInvalidInput)
		}
	case entity.SaleKindFromOrder:
		if in.OrderID == nil {
			return fmt.Errorf("%w: venta de encargo sin encargo", domain.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: tipo de venta %q", domain.ErrInvalidInput, in.Kind)
	}
	return nil
}

func kindOrDefault(kind string) string {
	if kind == "" {
		return entity.SaleKindDirect
	}
	return kind
}
