package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/orders"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
	"github.com/jhoicas/Caja-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Caja-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno HTTP completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)

type testEnv struct {
	app *fiber.App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	conv := currency.NewConverter("VES", "USD")
	rates := sales.NewRateProvider(decimal.NewFromInt(36))
	log := zerolog.Nop()
	clock := func() time.Time { return fixedNow }

	saleUC := sales.NewSaleUseCase(store, repos, rates, conv, log).WithClock(clock)
	orderUC := orders.NewOrderUseCase(store, repos, saleUC, log).WithClock(clock)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		SaleUC:      saleUC,
		OrderUC:     orderUC,
		ProductUC:   usecase.NewProductUseCase(store, repos.Products),
		InventoryUC: inventory.NewInventoryUseCase(store, repos, log),
		SettingsUC:  usecase.NewSettingsUseCase(repos.Settings, rates, conv, log),
		Receipts:    pdf.NewReceiptGenerator("Caja de prueba", "VES"),
		JWTSecret:   testJWTSecret,
	})
	return &testEnv{app: app}
}

func (e *testEnv) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) createProduct(t *testing.T, name, price string, qty int64) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/products", apphttp.RoleAdmin, fiber.Map{
		"name": name, "quantity": qty, "sale_price": price,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[dto.ProductResponse](t, resp).ID
}

func (e *testEnv) quantity(t *testing.T, productID string) int64 {
	t.Helper()
	resp := e.do(t, http.MethodGet, "/api/products/"+productID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[dto.ProductResponse](t, resp).Quantity
}

func saleBody(productID string, qty int64, payments ...fiber.Map) fiber.Map {
	return fiber.Map{
		"items":    []fiber.Map{{"product_id": productID, "quantity": qty}},
		"payments": payments,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSales_LiquidarConsultarYAnular(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Torta", "25.00", 10)

	resp := env.do(t, http.MethodPost, "/api/sales", apphttp.RoleVendedor,
		saleBody(id, 3, fiber.Map{"currency": "VES", "amount": "100"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody[dto.SaleResponse](t, resp)
	assert.Equal(t, int64(7500), sale.TotalCents)
	assert.Equal(t, int64(2500), sale.ChangeCents)
	assert.Equal(t, testUserID, sale.UserID)
	assert.Equal(t, int64(7), env.quantity(t, id))

	resp = env.do(t, http.MethodGet, "/api/sales/"+sale.ID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[dto.SaleResponse](t, resp)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.NewFromInt(25)))

	resp = env.do(t, http.MethodGet, "/api/sales?from=2024-06-15&to=2024-06-15", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[dto.SaleListResponse](t, resp).Items, 1)

	// Solo admin anula.
	resp = env.do(t, http.MethodDelete, "/api/sales/"+sale.ID, apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodDelete, "/api/sales/"+sale.ID, apphttp.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, int64(10), env.quantity(t, id))

	resp = env.do(t, http.MethodGet, "/api/sales/"+sale.ID, apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SALE_NOT_FOUND", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestSales_ErroresMapeados(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Pan", "25.00", 2)

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"stock insuficiente", saleBody(id, 3, fiber.Map{"currency": "VES", "amount": "75"}), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"pago insuficiente", saleBody(id, 1, fiber.Map{"currency": "VES", "amount": "10"}), http.StatusConflict, "INSUFFICIENT_PAYMENT"},
		{"moneda no soportada", saleBody(id, 1, fiber.Map{"currency": "EUR", "amount": "10"}), http.StatusBadRequest, "UNSUPPORTED_CURRENCY"},
		{"producto inexistente", saleBody("no-existe", 1, fiber.Map{"currency": "VES", "amount": "10"}), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{"cantidad cero", saleBody(id, 0, fiber.Map{"currency": "VES", "amount": "10"}), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"moneda malformada", saleBody(id, 1, fiber.Map{"currency": "V1", "amount": "10"}), http.StatusBadRequest, "INVALID_INPUT"},
		{"monto fuera de rango", saleBody(id, 1, fiber.Map{"currency": "VES", "amount": "184467440737095591.16"}), http.StatusBadRequest, "INVALID_AMOUNT"},
		{"sin pagos con total positivo", saleBody(id, 1), http.StatusConflict, "INSUFFICIENT_PAYMENT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/sales", apphttp.RoleVendedor, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeBody[dto.ErrorResponse](t, resp).Code)
		})
	}
	assert.Equal(t, int64(2), env.quantity(t, id), "ningún intento fallido descuenta stock")
}

func TestSales_DescuentoTotalSinPagos(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Galleta", "25.00", 4)

	body := saleBody(id, 1)
	body["discount"] = "25.00"
	resp := env.do(t, http.MethodPost, "/api/sales", apphttp.RoleVendedor, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody[dto.SaleResponse](t, resp)
	assert.Equal(t, int64(0), sale.TotalCents)
	assert.Equal(t, int64(0), sale.ChangeCents)
	assert.Empty(t, sale.Payments)
	assert.Equal(t, int64(3), env.quantity(t, id))
}

func TestSales_BodyInvalidoYRangoFaltante(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader([]byte("{no json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleVendedor))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/sales", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/sales?from=2024-06-20&to=2024-06-01", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSales_ComprobantePDF(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Torta", "25.00", 5)

	resp := env.do(t, http.MethodPost, "/api/sales", apphttp.RoleVendedor,
		saleBody(id, 1, fiber.Map{"currency": "USD", "amount": "1"}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody[dto.SaleResponse](t, resp)

	resp = env.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", apphttp.RoleVendedor, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Encargos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_CicloCompleto(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Galleta", "10.00", 5)

	resp := env.do(t, http.MethodPost, "/api/orders", apphttp.RoleVendedor, fiber.Map{
		"customer_name": "Ana",
		"delivery_date": "2024-06-20",
		"items":         []fiber.Map{{"product_id": id, "quantity": 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[dto.OrderResponse](t, resp)
	assert.Equal(t, "PENDING", order.Status)
	assert.True(t, order.EstimatedTotal.Equal(decimal.NewFromInt(50)))

	resp = env.do(t, http.MethodPost, "/api/orders/"+order.ID+"/deposits", apphttp.RoleVendedor, fiber.Map{"amount": "20"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/orders/"+order.ID, apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeBody[dto.OrderResponse](t, resp).Balance.Equal(decimal.NewFromInt(30)))

	resp = env.do(t, http.MethodPost, "/api/orders/"+order.ID+"/finalize", apphttp.RoleVendedor, fiber.Map{
		"payments": []fiber.Map{{"currency": "VES", "amount": "30"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fin := decodeBody[dto.FinalizeOrderResponse](t, resp)
	assert.Equal(t, "FULFILLED", fin.Order.Status)
	assert.Equal(t, int64(5000), fin.Sale.TotalCents)
	assert.Equal(t, int64(0), fin.Sale.ChangeCents)
	assert.Equal(t, "FROM_ORDER", fin.Sale.Kind)
	assert.Equal(t, int64(0), env.quantity(t, id))

	resp = env.do(t, http.MethodPost, "/api/orders/"+order.ID+"/cancel", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ORDER_NOT_PENDING", decodeBody[dto.ErrorResponse](t, resp).Code)

	resp = env.do(t, http.MethodGet, "/api/orders?from=2024-06-20&to=2024-06-20", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[dto.OrderListResponse](t, resp).Items, 1)
}

func TestOrders_Cancelar(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProduct(t, "Galleta", "10.00", 5)

	resp := env.do(t, http.MethodPost, "/api/orders", apphttp.RoleVendedor, fiber.Map{
		"customer_name": "Luis",
		"delivery_date": "2024-06-21",
		"items":         []fiber.Map{{"product_id": id, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody[dto.OrderResponse](t, resp)

	resp = env.do(t, http.MethodPost, "/api/orders/"+order.ID+"/cancel", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decodeBody[dto.OrderResponse](t, resp).Status)

	resp = env.do(t, http.MethodPost, "/api/orders/no-existe/cancel", apphttp.RoleVendedor, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, inventario y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_EscriturasSoloAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/products", apphttp.RoleVendedor, fiber.Map{"name": "X", "sale_price": "1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	id := env.createProduct(t, "Torta", "25.00", 4)
	resp = env.do(t, http.MethodPut, "/api/products/"+id+"/prices", apphttp.RoleAdmin, fiber.Map{"sale_price": "30.00"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeBody[dto.ProductResponse](t, resp)
	require.NotNil(t, p.SalePrice)
	assert.True(t, p.SalePrice.Equal(decimal.NewFromInt(30)))

	resp = env.do(t, http.MethodGet, "/api/products/"+id+"/movements", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]dto.MovementResponse](t, resp), 1, "el stock inicial queda en el kardex")
}

func TestInventory_CompraYProduccion(t *testing.T) {
	env := newTestEnv(t)
	productID := env.createProduct(t, "Torta", "25.00", 0)

	resp := env.do(t, http.MethodPost, "/api/raw-materials", apphttp.RoleAdmin, fiber.Map{
		"name": "Harina", "unit": "kg", "stock": "10", "unit_cost": "2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rm := decodeBody[dto.RawMaterialResponse](t, resp)

	resp = env.do(t, http.MethodPost, "/api/raw-materials/"+rm.ID+"/purchases", apphttp.RoleAdmin, fiber.Map{
		"quantity": "10", "unit_cost": "4",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeBody[dto.RawMaterialResponse](t, resp).UnitCost.Equal(decimal.NewFromInt(3)))

	resp = env.do(t, http.MethodPost, "/api/production", apphttp.RoleAdmin, fiber.Map{
		"product_id":      productID,
		"output_quantity": 4,
		"inputs":          []fiber.Map{{"raw_material_id": rm.ID, "quantity": "4"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	batch := decodeBody[dto.ProductionResponse](t, resp)
	assert.Equal(t, int64(4), batch.NewQuantity)
	assert.Equal(t, int64(4), env.quantity(t, productID))

	resp = env.do(t, http.MethodGet, "/api/raw-materials/"+rm.ID+"/movements", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]dto.MovementResponse](t, resp), 3)
}

func TestSettings_TasaDeCambio(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/settings/exchange-rate", apphttp.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[dto.ExchangeRateResponse](t, resp)
	assert.Equal(t, sales.RateSourceConfig, got.Source)

	resp = env.do(t, http.MethodPut, "/api/settings/exchange-rate", apphttp.RoleVendedor, fiber.Map{"rate": "40"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, "/api/settings/exchange-rate", apphttp.RoleAdmin, fiber.Map{"rate": "0"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodPut, "/api/settings/exchange-rate", apphttp.RoleAdmin, fiber.Map{"rate": "40"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = decodeBody[dto.ExchangeRateResponse](t, resp)
	assert.Equal(t, sales.RateSourceSettings, got.Source)
	require.NotNil(t, got.Rate)
	assert.True(t, got.Rate.Equal(decimal.NewFromInt(40)))
}

func TestRutasRequierenToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
