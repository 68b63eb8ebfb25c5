package sales_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// fakeMetrics registra lo observado para poder verificarlo.
type fakeMetrics struct {
	mu          sync.Mutex
	settlements []string
	voids       []string
}

func (f *fakeMetrics) SettlementObserved(kind, result string, _ money.Cents) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settlements = append(f.settlements, kind+":"+result)
}

func (f *fakeMetrics) VoidObserved(result string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voids = append(f.voids, result)
}

type fixture struct {
	store   *memory.Store
	uc      *sales.SaleUseCase
	metrics *fakeMetrics
}

func newFixture(t *testing.T, fallbackRate string) *fixture {
	t.Helper()
	store := memory.NewStore()
	m := &fakeMetrics{}
	uc := sales.NewSaleUseCase(
		store,
		store.Repos(),
		sales.NewRateProvider(d(fallbackRate)),
		currency.NewConverter("VES", "USD"),
		zerolog.Nop(),
	).WithMetrics(m).WithClock(func() time.Time { return fixedNow })
	return &fixture{store: store, uc: uc, metrics: m}
}

func (f *fixture) product(t *testing.T, id, salePrice string, qty int64) {
	t.Helper()
	p := &entity.Product{ID: id, Name: "Producto " + id, Quantity: qty}
	if salePrice != "" {
		p.SalePrice = dp(salePrice)
	}
	require.NoError(t, f.store.Repos().Products.Create(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func base(amount string) currency.Payment {
	return currency.Payment{Currency: "VES", Amount: d(amount)}
}

func cart(lines ...sales.LineInput) []sales.LineInput { return lines }

func line(id string, qty int64) sales.LineInput {
	return sales.LineInput{ProductID: id, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de liquidación
// ──────────────────────────────────────────────────────────────────────────────

func TestSettle_PagoExacto(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 3)),
		Payments: []currency.Payment{base("75.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.stock(t, "P"))
	assert.Equal(t, money.Cents(7500), res.Sale.Total)
	assert.Equal(t, money.Cents(0), res.Change)
	assert.Equal(t, money.Cents(7500), res.Paid)
	assert.Equal(t, entity.SaleKindDirect, res.Sale.Kind)
	assert.Equal(t, entity.SaleStatusComplete, res.Sale.Status)
	assert.Equal(t, fixedNow, res.Sale.CreatedAt)
	assert.Equal(t, []string{"DIRECT:ok"}, f.metrics.settlements)

	// el kardex referencia la venta
	movs, _ := f.store.Repos().Movements.ListByItem(context.Background(), entity.ItemKindProduct, "P", 0)
	require.Len(t, movs, 1)
	assert.Equal(t, res.Sale.ID, movs[0].Reference)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
}

func TestSettle_ConVuelto(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 3)),
		Payments: []currency.Payment{base("100.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2500), res.Change)
	assert.Equal(t, "25.00", res.Change.String())
}

func TestSettle_StockInsuficienteNoMuta(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 2)

	_, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 3)),
		Payments: []currency.Payment{base("75.00")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Producto P")

	assert.Equal(t, int64(2), f.stock(t, "P"))
	list, err := f.uc.List(context.Background(), fixedNow, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, list, "no debe quedar ninguna venta")
	assert.Equal(t, []string{"DIRECT:insufficient_stock"}, f.metrics.settlements)
}

func TestSettle_StockAcumuladoPorProducto(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "1.00", 5)

	// 3 + 3 del mismo producto supera el stock de 5 aunque cada línea por sí sola no lo haga.
	_, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 3), line("P", 3)),
		Payments: []currency.Payment{base("6")},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(5), f.stock(t, "P"))
}

func TestSettle_PagoInsuficienteRevierte(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)

	_, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 3)),
		Payments: []currency.Payment{base("74.99")},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientPayment))
	assert.Equal(t, int64(10), f.stock(t, "P"))
}

func TestSettle_DescuentoSeLimitaAlBruto(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "10.00", 10)

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 2)),
		Discount: 50000,
		Payments: []currency.Payment{base("0.01")},
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(2000), res.Sale.Discount)
	assert.Equal(t, money.Cents(0), res.Sale.Total)
	assert.Equal(t, money.Cents(1), res.Change)
}

func TestSettle_Invariantes(t *testing.T) {
	f := newFixture(t, "36.50")
	f.product(t, "A", "12.35", 100)
	f.product(t, "B", "7.10", 100)

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("A", 3), line("B", 2), line("A", 1)),
		Discount: 199,
		Payments: []currency.Payment{
			base("20"),
			{Currency: "USD", Amount: d("1.5")}, // tasa por defecto 36.50 → 5475
			{Currency: "USD", Amount: d("0.1"), Rate: dp("40")}, // tasa explícita → 400
		},
	})
	require.NoError(t, err)
	sale := res.Sale

	gross, err := sale.Gross()
	require.NoError(t, err)
	assert.Equal(t, gross-sale.Discount, sale.Total)
	assert.LessOrEqual(t, int64(sale.Discount), int64(gross))
	assert.GreaterOrEqual(t, int64(res.Paid), int64(sale.Total))
	assert.Equal(t, res.Paid-sale.Total, res.Change)
	assert.GreaterOrEqual(t, int64(res.Change), int64(0))

	require.Len(t, sale.Payments, 3)
	assert.Nil(t, sale.Payments[0].Rate)
	assert.Equal(t, money.Cents(5475), sale.Payments[1].AmountBase)
	assert.True(t, sale.Payments[1].Rate.Equal(d("36.50")), "se guarda la tasa resuelta")
	assert.Equal(t, money.Cents(400), sale.Payments[2].AmountBase)
	assert.Equal(t, int64(96), f.stock(t, "A"))
}

func TestSettle_TasaDeSettingsTienePrioridad(t *testing.T) {
	f := newFixture(t, "10")
	f.product(t, "P", "100.00", 1)
	require.NoError(t, f.store.Repos().Settings.SetDefaultExchangeRate(context.Background(), d("40")))

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 1)),
		Payments: []currency.Payment{{Currency: "USD", Amount: d("2.5")}},
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(10000), res.Paid)
}

func TestSettle_SinTasaDisponibleFalla(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "1.00", 1)

	_, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 1)),
		Payments: []currency.Payment{{Currency: "USD", Amount: d("1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidExchangeRate))
	assert.Equal(t, int64(1), f.stock(t, "P"))
}

func TestSettle_Validaciones(t *testing.T) {
	f := newFixture(t, "1")
	f.product(t, "P", "1.00", 10)
	f.product(t, "SINPRECIO", "", 10)
	orderID := "o1"

	cases := []struct {
		name string
		in   sales.SettleInput
		want error
	}{
		{"sin líneas", sales.SettleInput{Payments: []currency.Payment{base("1")}}, domain.ErrInvalidInput},
		{"cantidad cero", sales.SettleInput{Items: cart(line("P", 0)), Payments: []currency.Payment{base("1")}}, domain.ErrInvalidQuantity},
		{"cantidad negativa", sales.SettleInput{Items: cart(line("P", -1)), Payments: []currency.Payment{base("1")}}, domain.ErrInvalidQuantity},
		{"descuento negativo", sales.SettleInput{Items: cart(line("P", 1)), Discount: -1, Payments: []currency.Payment{base("1")}}, domain.ErrInvalidDiscount},
		{"sin pagos con total positivo", sales.SettleInput{Items: cart(line("P", 1))}, domain.ErrInsufficientPayment},
		{"pago en cero", sales.SettleInput{Items: cart(line("P", 1)), Payments: []currency.Payment{base("0")}}, domain.ErrInvalidPaymentAmount},
		{"moneda desconocida", sales.SettleInput{Items: cart(line("P", 1)), Payments: []currency.Payment{{Currency: "EUR", Amount: d("1")}}}, domain.ErrUnsupportedCurrency},
		{"producto inexistente", sales.SettleInput{Items: cart(line("X", 1)), Payments: []currency.Payment{base("1")}}, domain.ErrProductNotFound},
		{"producto sin precio", sales.SettleInput{Items: cart(line("SINPRECIO", 1)), Payments: []currency.Payment{base("1")}}, domain.ErrMissingPrice},
		{"directa con encargo", sales.SettleInput{Items: cart(line("P", 1)), Payments: []currency.Payment{base("1")}, OrderID: &orderID}, domain.ErrInvalidInput},
		{"de encargo sin encargo", sales.SettleInput{Items: cart(line("P", 1)), Payments: []currency.Payment{base("1")}, Kind: entity.SaleKindFromOrder}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Settle(context.Background(), tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, "P"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Total cero y montos fuera de rango
// ──────────────────────────────────────────────────────────────────────────────

func TestSettle_TotalCeroNoRequierePagos(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)
	f.product(t, "GRATIS", "0.00", 5)

	res, err := f.uc.Settle(context.Background(), sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 1)),
		Discount: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), res.Sale.Total)
	assert.Equal(t, money.Cents(0), res.Paid)
	assert.Empty(t, res.Sale.Payments)
	assert.Equal(t, int64(9), f.stock(t, "P"))

	res, err = f.uc.Settle(context.Background(), sales.SettleInput{UserID: testUserID, Items: cart(line("GRATIS", 2))})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(0), res.Sale.Total)
	assert.Equal(t, int64(3), f.stock(t, "GRATIS"))
}

func TestSettle_MontosFueraDeRangoNoEnvuelven(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)
	f.product(t, "MUCHO", "25.00", math.MaxInt64)

	cases := []struct {
		name string
		in   sales.SettleInput
		want error
	}{
		{"pago enorme", sales.SettleInput{Items: cart(line("P", 3)), Payments: []currency.Payment{base("184467440737095591.16")}}, domain.ErrInvalidAmount},
		{"suma de pagos desborda", sales.SettleInput{Items: cart(line("P", 3)), Payments: []currency.Payment{base("92233720368547758.00"), base("1")}}, domain.ErrInvalidAmount},
		{"subtotal desborda", sales.SettleInput{Items: cart(line("MUCHO", 7378697629483821)), Payments: []currency.Payment{base("1")}}, domain.ErrInvalidAmount},
		{"bruto desborda", sales.SettleInput{Items: cart(line("MUCHO", 3689348814741910), line("P", 1)), Payments: []currency.Payment{base("1")}}, domain.ErrInvalidAmount},
		{"cantidad acumulada desborda", sales.SettleInput{Items: cart(line("MUCHO", math.MaxInt64), line("MUCHO", 1)), Payments: []currency.Payment{base("1")}}, domain.ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.UserID = testUserID
			_, err := f.uc.Settle(context.Background(), tc.in)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, "P"))
	assert.Equal(t, int64(math.MaxInt64), f.stock(t, "MUCHO"))
}

func TestSettleFromRequest_DescuentoFueraDeRango(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)

	_, err := f.uc.SettleFromRequest(context.Background(), testUserID, dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductID: "P", Quantity: 1}},
		Payments: []dto.PaymentRequest{{Currency: "VES", Amount: d("25")}},
		Discount: d("1e30"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	assert.Equal(t, int64(10), f.stock(t, "P"))
}

// ──────────────────────────────────────────────────────────────────────────────
// La tasa por defecto solo se consulta cuando hace falta
// ──────────────────────────────────────────────────────────────────────────────

// corruptSettings simula una fila de settings ilegible.
type corruptSettings struct{}

func (corruptSettings) GetDefaultExchangeRate(context.Context) (*decimal.Decimal, error) {
	return nil, domain.ErrCorruptRecord
}

func (corruptSettings) SetDefaultExchangeRate(context.Context, decimal.Decimal) error { return nil }

func TestSettle_SettingsCorruptoSoloAfectaPagosSinTasa(t *testing.T) {
	f := newFixture(t, "36")
	f.product(t, "P", "10.00", 10)
	repos := f.store.Repos()
	repos.Settings = corruptSettings{}
	ctx := context.Background()

	res, err := f.uc.SettleInTx(ctx, repos, sales.SettleInput{UserID: testUserID, Items: cart(line("P", 1)), Payments: []currency.Payment{base("10")}})
	require.NoError(t, err, "pago en moneda base no necesita tasa")
	assert.Equal(t, money.Cents(1000), res.Paid)

	res, err = f.uc.SettleInTx(ctx, repos, sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 1)),
		Payments: []currency.Payment{{Currency: "USD", Amount: d("1"), Rate: dp("40")}},
	})
	require.NoError(t, err, "pago extranjero con tasa explícita no necesita tasa por defecto")
	assert.Equal(t, money.Cents(4000), res.Paid)

	_, err = f.uc.SettleInTx(ctx, repos, sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("P", 1)),
		Payments: []currency.Payment{{Currency: "USD", Amount: d("1")}},
	})
	assert.True(t, errors.Is(err, domain.ErrCorruptRecord))
}

func TestSettle_PrecioCongelado(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "5.00", 10)
	ctx := context.Background()

	res, err := f.uc.Settle(ctx, sales.SettleInput{UserID: testUserID, Items: cart(line("P", 2)), Payments: []currency.Payment{base("10")}})
	require.NoError(t, err)

	require.NoError(t, f.store.Repos().Products.UpdatePrices(ctx, "P", dp("9.99"), nil))

	got, err := f.uc.Get(ctx, res.Sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, money.Cents(500), got.Items[0].UnitPrice)
	assert.Equal(t, money.Cents(1000), got.Total)
}

func TestSettleFromRequest(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "25.00", 10)

	out, err := f.uc.SettleFromRequest(context.Background(), testUserID, dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductID: "P", Quantity: 3}},
		Payments: []dto.PaymentRequest{{Currency: "VES", Amount: d("100")}},
		Discount: d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), out.TotalCents)
	assert.Equal(t, int64(3000), out.ChangeCents)
	assert.True(t, out.Total.Equal(d("70")))
	assert.True(t, out.Subtotal.Equal(d("75")))
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Producto P", out.Items[0].ProductName)
}

func TestSettle_ConcurrenteNoSobrevende(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "P", "1.00", 5)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Settle(context.Background(), sales.SettleInput{
				UserID: testUserID, Items: cart(line("P", 1)), Payments: []currency.Payment{base("1")},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, insufficient)
	assert.Equal(t, int64(0), f.stock(t, "P"))
}
