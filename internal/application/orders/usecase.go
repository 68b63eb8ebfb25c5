// Package orders ciclo de vida de encargos: creación con precio congelado, abonos,
// finalización (que liquida una venta) y cancelación.
package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/pricing"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Transiciones observadas en métricas.
const (
	TransitionCreate   = "create"
	TransitionDeposit  = "deposit"
	TransitionFinalize = "finalize"
	TransitionCancel   = "cancel"
)

// Settler liquidación reutilizada por Finalize dentro de su propia transacción.
type Settler interface {
	SettleInTx(ctx context.Context, repos repository.TxRepos, in sales.SettleInput) (*sales.SettleResult, error)
	Converter() currency.Converter
}

// Metrics observador de transiciones de encargos.
type Metrics interface {
	OrderTransition(transition, result string)
}

type nopMetrics struct{}

func (nopMetrics) OrderTransition(string, string) {}

// OrderUseCase casos de uso de encargos.
type OrderUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	settler  Settler
	metrics  Metrics
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner repository.TxRunner, repos repository.TxRepos, settler Settler, log zerolog.Logger) *OrderUseCase {
	return &OrderUseCase{
		txRunner: txRunner,
		repos:    repos,
		settler:  settler,
		metrics:  nopMetrics{},
		log:      log,
		tracer:   otel.Tracer("caja/orders"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics registra el observador de métricas.
func (uc *OrderUseCase) WithMetrics(m Metrics) *OrderUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *OrderUseCase) WithClock(now func() time.Time) *OrderUseCase {
	uc.now = now
	return uc
}

// OrderView encargo con sus abonos.
type OrderView struct {
	Order    *entity.Order
	Deposits []entity.Deposit
}

// Deposited suma de abonos.
func (v OrderView) Deposited() (money.Cents, error) {
	return sumDeposits(v.Deposits)
}

func sumDeposits(deposits []entity.Deposit) (money.Cents, error) {
	var total money.Cents
	for _, dep := range deposits {
		var err error
		if total, err = money.Add(total, dep.Amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Create registra un encargo PENDING congelando el precio de cada línea. No toca stock.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	order, err := uc.create(ctx, userID, in)
	uc.observe(TransitionCreate, err)
	return order, err
}

func (uc *OrderUseCase) create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*entity.Order, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, fmt.Errorf("%w: falta el nombre del cliente", domain.ErrInvalidInput)
	}
	delivery, err := dto.ParseDate(in.DeliveryDate)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el encargo no tiene líneas", domain.ErrInvalidInput)
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, it.ProductID)
		}
	}

	order := &entity.Order{
		ID:           uuid.New().String(),
		CustomerName: name,
		DeliveryDate: delivery.UTC(),
		Status:       entity.OrderStatusPending,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    userID,
		CreatedAt:    uc.now(),
	}
	for _, it := range in.Items {
		_, price, err := pricing.Quote(ctx, uc.repos.Products, it.ProductID)
		if err != nil {
			return nil, err
		}
		line := entity.OrderLineItem{
			ID:                 uuid.New().String(),
			OrderID:            order.ID,
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			EstimatedUnitPrice: price,
		}
		order.Items = append(order.Items, line)
	}
	total, err := order.ItemsTotal()
	if err != nil {
		return nil, err
	}
	order.EstimatedTotal = total
	if err := uc.repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("customer", order.CustomerName).
		Int64("estimated_total_cents", int64(order.EstimatedTotal)).
		Msg("encargo creado")
	return order, nil
}

// RegisterDeposit agrega un abono a un encargo PENDING.
func (uc *OrderUseCase) RegisterDeposit(ctx context.Context, orderID string, in dto.DepositRequest) (*entity.Deposit, error) {
	amount, amountErr := money.FromDecimal(in.Amount)
	var deposit *entity.Deposit
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := lockPending(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if amountErr != nil {
			return amountErr
		}
		if amount <= 0 {
			return fmt.Errorf("%w: abono %s", domain.ErrInvalidPaymentAmount, in.Amount)
		}
		// la suma de abonos también tiene que caber en céntimos
		previous, err := repos.Orders.ListDeposits(ctx, order.ID)
		if err != nil {
			return err
		}
		deposited, err := sumDeposits(previous)
		if err != nil {
			return err
		}
		if _, err := money.Add(deposited, amount); err != nil {
			return err
		}
		deposit = &entity.Deposit{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			Amount:    amount,
			Method:    strings.TrimSpace(in.Method),
			CreatedAt: uc.now(),
		}
		return repos.Orders.AddDeposit(ctx, deposit)
	})
	uc.observe(TransitionDeposit, err)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Int64("amount_cents", int64(amount)).Msg("abono registrado")
	return deposit, nil
}

// Finalize liquida el encargo: los abonos entran como pagos en moneda base, se suman los pagos
// adicionales y se cobra a precio vigente. Venta y cambio de estado se confirman juntos.
func (uc *OrderUseCase) Finalize(ctx context.Context, userID, orderID string, in dto.FinalizeOrderRequest) (*OrderView, *sales.SettleResult, error) {
	ctx, span := uc.tracer.Start(ctx, "orders.Finalize")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	var (
		view *OrderView
		res  *sales.SettleResult
	)
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := lockPending(ctx, repos, orderID)
		if err != nil {
			return err
		}
		deposits, err := repos.Orders.ListDeposits(ctx, order.ID)
		if err != nil {
			return err
		}

		baseCode := uc.settler.Converter().Base
		payments := make([]currency.Payment, 0, len(deposits)+len(in.Payments))
		for _, dep := range deposits {
			payments = append(payments, currency.Payment{Currency: baseCode, Amount: dep.Amount.Decimal()})
		}
		payments = append(payments, sales.PaymentsFromRequest(in.Payments)...)

		discount, err := money.FromDecimal(in.Discount)
		if err != nil {
			return err
		}
		settle := sales.SettleInput{
			UserID:   userID,
			Payments: payments,
			Discount: discount,
			Kind:     entity.SaleKindFromOrder,
			OrderID:  &order.ID,
		}
		for _, it := range order.Items {
			settle.Items = append(settle.Items, sales.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		res, err = uc.settler.SettleInTx(ctx, repos, settle)
		if err != nil {
			return err
		}

		fulfilled, err := order.Fulfill(res.Sale.ID)
		if err != nil {
			return err
		}
		if err := repos.Orders.UpdateState(ctx, &fulfilled); err != nil {
			return err
		}
		view = &OrderView{Order: &fulfilled, Deposits: deposits}
		return nil
	})
	uc.observe(TransitionFinalize, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Code(err))
		return nil, nil, err
	}
	uc.log.Info().
		Str("order_id", orderID).
		Str("sale_id", res.Sale.ID).
		Int64("total_cents", int64(res.Sale.Total)).
		Int64("change_cents", int64(res.Change)).
		Msg("encargo finalizado")
	return view, res, nil
}

// Cancel pasa un encargo PENDING a CANCELLED. Los abonos no se reembolsan ni se revierten.
func (uc *OrderUseCase) Cancel(ctx context.Context, orderID string) (*entity.Order, error) {
	var cancelled entity.Order
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		order, err := lockPending(ctx, repos, orderID)
		if err != nil {
			return err
		}
		cancelled, err = order.Cancel()
		if err != nil {
			return err
		}
		return repos.Orders.UpdateState(ctx, &cancelled)
	})
	uc.observe(TransitionCancel, err)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Msg("encargo cancelado")
	return &cancelled, nil
}

// Get devuelve el encargo con sus abonos.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*OrderView, error) {
	order, err := uc.repos.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	deposits, err := uc.repos.Orders.ListDeposits(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderView{Order: order, Deposits: deposits}, nil
}

// List encargos con fecha de entrega dentro de [from, to] por día completo.
func (uc *OrderUseCase) List(ctx context.Context, from, to time.Time) ([]*OrderView, error) {
	start, end := dto.DayRange(from, to)
	list, err := uc.repos.Orders.ListByDeliveryRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderView, 0, len(list))
	for _, o := range list {
		deposits, err := uc.repos.Orders.ListDeposits(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &OrderView{Order: o, Deposits: deposits})
	}
	return out, nil
}

func lockPending(ctx context.Context, repos repository.TxRepos, orderID string) (*entity.Order, error) {
	order, err := repos.Orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	if !order.IsPending() {
		return nil, fmt.Errorf("%w: %s está %s", domain.ErrOrderNotPending, order.ID, order.Status)
	}
	return order, nil
}

func (uc *OrderUseCase) observe(transition string, err error) {
	result := "ok"
	if err != nil {
		result = strings.ToLower(domain.Code(err))
	}
	uc.metrics.OrderTransition(transition, result)
}
