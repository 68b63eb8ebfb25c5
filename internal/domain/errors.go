package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del motor de liquidación.
var (
	ErrInvalidAmount        = errors.New("monto inválido")
	ErrInvalidExchangeRate  = errors.New("tasa de cambio inválida")
	ErrInvalidPaymentAmount = errors.New("el monto del pago debe ser mayor a cero")
	ErrUnsupportedCurrency  = errors.New("moneda no soportada")
	ErrInvalidQuantity      = errors.New("la cantidad debe ser mayor a cero")
	ErrInvalidDiscount      = errors.New("descuento inválido")
	ErrMissingPrice         = errors.New("el producto no tiene precio de venta ni costo")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInsufficientPayment  = errors.New("pago insuficiente")
	ErrOrderNotPending      = errors.New("el encargo no está pendiente")
	ErrCorruptRecord        = errors.New("registro corrupto")
)

// Errores de "no encontrado" por entidad; todos envuelven ErrNotFound.
var (
	ErrProductNotFound     = notFound("producto no encontrado")
	ErrRawMaterialNotFound = notFound("insumo no encontrado")
	ErrSaleNotFound        = notFound("venta no encontrada")
	ErrOrderNotFound       = notFound("encargo no encontrado")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Unwrap() error { return ErrNotFound }

var codes = []struct {
	err  error
	code string
}{
	{ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{ErrInsufficientPayment, "INSUFFICIENT_PAYMENT"},
	{ErrOrderNotPending, "ORDER_NOT_PENDING"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrInvalidExchangeRate, "INVALID_EXCHANGE_RATE"},
	{ErrInvalidPaymentAmount, "INVALID_PAYMENT_AMOUNT"},
	{ErrUnsupportedCurrency, "UNSUPPORTED_CURRENCY"},
	{ErrInvalidQuantity, "INVALID_QUANTITY"},
	{ErrInvalidDiscount, "INVALID_DISCOUNT"},
	{ErrMissingPrice, "MISSING_PRICE"},
	{ErrCorruptRecord, "CORRUPT_RECORD"},
	{ErrProductNotFound, "PRODUCT_NOT_FOUND"},
	{ErrRawMaterialNotFound, "RAW_MATERIAL_NOT_FOUND"},
	{ErrSaleNotFound, "SALE_NOT_FOUND"},
	{ErrOrderNotFound, "ORDER_NOT_FOUND"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrInvalidInput, "INVALID_INPUT"},
	{ErrUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, "FORBIDDEN"},
	{ErrConflict, "CONFLICT"},
}

// Code devuelve un código estable para err (respuestas HTTP y etiquetas de métricas).
// "" si err es nil; "INTERNAL" si no es un error de dominio conocido.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL"
}
