package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// ──────────────────────────────────────────────────────────────────────────────
// Anulación
// ──────────────────────────────────────────────────────────────────────────────

func TestVoid_RestauraStockExacto(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "A", "2.00", 10)
	f.product(t, "B", "3.00", 4)
	ctx := context.Background()

	res, err := f.uc.Settle(ctx, sales.SettleInput{
		UserID:   testUserID,
		Items:    cart(line("A", 3), line("B", 4), line("A", 2)),
		Payments: []currency.Payment{base("100")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.stock(t, "A"))
	assert.Equal(t, int64(0), f.stock(t, "B"))

	voided, err := f.uc.Void(ctx, res.Sale.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, res.Sale.ID, voided.ID)

	assert.Equal(t, int64(10), f.stock(t, "A"))
	assert.Equal(t, int64(4), f.stock(t, "B"))

	_, err = f.uc.Get(ctx, res.Sale.ID)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// OUT por venta + IN por anulación, ambos con la venta como referencia
	movs, _ := f.store.Repos().Movements.ListByItem(ctx, entity.ItemKindProduct, "B", 0)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, res.Sale.ID, movs[0].Reference)
	assert.Equal(t, []string{"ok"}, f.metrics.voids)
}

func TestVoid_VentaInexistente(t *testing.T) {
	f := newFixture(t, "0")
	_, err := f.uc.Void(context.Background(), "nope", testUserID)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
	assert.Equal(t, []string{"sale_not_found"}, f.metrics.voids)
}

func TestVoid_DosVecesFalla(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "A", "2.00", 10)
	ctx := context.Background()

	res, err := f.uc.Settle(ctx, sales.SettleInput{UserID: testUserID, Items: cart(line("A", 1)), Payments: []currency.Payment{base("2")}})
	require.NoError(t, err)
	_, err = f.uc.Void(ctx, res.Sale.ID, testUserID)
	require.NoError(t, err)
	_, err = f.uc.Void(ctx, res.Sale.ID, testUserID)
	assert.True(t, errors.Is(err, domain.ErrSaleNotFound))
	assert.Equal(t, int64(10), f.stock(t, "A"), "el stock se repone una sola vez")
}

func TestVoid_VentaHeredadaReponeDesdeBlob(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "A", "2.00", 1)
	ctx := context.Background()

	f.store.ImportLegacySale(entity.Sale{ID: "legacy-1", Total: 400, CreatedAt: fixedNow, Status: entity.SaleStatusComplete, Kind: entity.SaleKindDirect},
		[]byte(`[{"product_id":"A","product_name":"A","quantity":2,"unit_price":2.0}]`),
		[]byte(`[{"currency":"VES","amount":4}]`))

	_, err := f.uc.Void(ctx, "legacy-1", testUserID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.stock(t, "A"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta histórica
// ──────────────────────────────────────────────────────────────────────────────

func TestList_RangoInclusivoPorDia(t *testing.T) {
	f := newFixture(t, "0")
	f.product(t, "A", "1.00", 100)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 16, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		f.uc.WithClock(func() time.Time { return day })
		_, err := f.uc.Settle(ctx, sales.SettleInput{UserID: testUserID, Items: cart(line("A", 1)), Payments: []currency.Payment{base("1")}})
		require.NoError(t, err)
	}

	list, err := f.uc.List(ctx, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, days[2], list[0].CreatedAt, "más reciente primero")
	assert.Equal(t, days[1], list[1].CreatedAt)
	for _, s := range list {
		assert.Len(t, s.Items, 1, "las ventas del listado vienen hidratadas")
		assert.Len(t, s.Payments, 1)
	}
}

func TestGet_FallbackABlobHeredado(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	f.store.ImportLegacySale(entity.Sale{ID: "legacy-1", Total: 5100, CreatedAt: fixedNow, Status: entity.SaleStatusComplete, Kind: entity.SaleKindDirect},
		[]byte(`[{"product_id":"A","product_name":"Torta","quantity":2,"unit_price":25.5}]`),
		[]byte(`[{"currency":"VES","amount":20},{"currency":"USD","amount":1,"rate":36.5}]`))

	sale, err := f.uc.Get(ctx, "legacy-1")
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, money.Cents(2550), sale.Items[0].UnitPrice)
	assert.Equal(t, "Torta", sale.Items[0].ProductName)
	require.Len(t, sale.Payments, 2)
	assert.Equal(t, money.Cents(2000), sale.Payments[0].AmountBase)
	assert.Equal(t, money.Cents(3650), sale.Payments[1].AmountBase)
	paid, err := sale.Paid()
	require.NoError(t, err)
	assert.Equal(t, money.Cents(5650), paid)
}

func TestGet_BlobIlegibleDaColeccionesVacias(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	f.store.ImportLegacySale(entity.Sale{ID: "legacy-2", Total: 100, CreatedAt: fixedNow},
		[]byte(`{no es json`),
		[]byte(`[{"currency":"XYZ","amount":1}]`))

	sale, err := f.uc.Get(ctx, "legacy-2")
	require.NoError(t, err)
	assert.NotNil(t, sale.Items)
	assert.Empty(t, sale.Items)
	assert.Empty(t, sale.Payments)
	assert.Equal(t, money.Cents(100), sale.Total)
}

func TestGet_BlobHeredadoConAmountBaseSinTasa(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	f.store.ImportLegacySale(entity.Sale{ID: "legacy-3", Total: 3650, CreatedAt: fixedNow, Status: entity.SaleStatusComplete, Kind: entity.SaleKindDirect},
		[]byte(`[{"product_id":"A","product_name":"Torta","quantity":1,"unit_price":36.5}]`),
		[]byte(`[{"currency":"usd","amount":1,"amount_base":36.5}]`))

	sale, err := f.uc.Get(ctx, "legacy-3")
	require.NoError(t, err)
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, "USD", sale.Payments[0].Currency)
	assert.Nil(t, sale.Payments[0].Rate)
	assert.Equal(t, money.Cents(3650), sale.Payments[0].AmountBase)
	assert.True(t, sale.Payments[0].Amount.Equal(d("1")))
}

func TestGet_BlobHeredadoConSumasFueraDeRango(t *testing.T) {
	f := newFixture(t, "0")
	ctx := context.Background()

	f.store.ImportLegacySale(entity.Sale{ID: "legacy-4", Total: 100, CreatedAt: fixedNow},
		[]byte(`[{"product_id":"A","quantity":9223372036854775807,"unit_price":25}]`),
		[]byte(`[{"currency":"VES","amount":1,"amount_base":9.2e16},{"currency":"VES","amount":1,"amount_base":9.2e16}]`))

	sale, err := f.uc.Get(ctx, "legacy-4")
	require.NoError(t, err)
	assert.Empty(t, sale.Items)
	assert.Empty(t, sale.Payments)

	_, err = sales.ToSaleResponse(sale)
	require.NoError(t, err)
}

func TestToSaleResponse(t *testing.T) {
	rate := d("36.5")
	sale := &entity.Sale{
		ID:       "s1",
		Total:    4500,
		Discount: 500,
		Items:    []entity.SaleLineItem{{ProductID: "A", Quantity: 2, UnitPrice: 2500}},
		Payments: []entity.PaymentLine{{Currency: "USD", Amount: d("2"), Rate: &rate, AmountBase: 7300}},
		Kind:     entity.SaleKindDirect,
	}
	out, err := sales.ToSaleResponse(sale)
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(d("50")))
	assert.True(t, out.Total.Equal(d("45")))
	assert.True(t, out.Change.Equal(d("28")))
	assert.Equal(t, int64(2800), out.ChangeCents)
	assert.True(t, out.Payments[0].AmountBase.Equal(d("73")))
}
