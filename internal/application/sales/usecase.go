// Package sales liquida ventas de caja: carrito + pagos multimoneda -> venta confirmada,
// además de la anulación y la consulta histórica.
package sales

import (
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Caja-api/internal/domain/currency"
	"github.com/jhoicas/Caja-api/internal/domain/money"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Metrics observador de liquidaciones. Lo implementa infrastructure/metrics.
type Metrics interface {
	SettlementObserved(kind, result string, total money.Cents)
	VoidObserved(result string)
}

type nopMetrics struct{}

func (nopMetrics) SettlementObserved(string, string, money.Cents) {}
func (nopMetrics) VoidObserved(string)                            {}

// SaleUseCase motor de liquidación de ventas.
type SaleUseCase struct {
	txRunner  repository.TxRunner
	repos     repository.TxRepos // consultas sin transacción
	rates     *RateProvider
	converter currency.Converter
	metrics   Metrics
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner repository.TxRunner,
	repos repository.TxRepos,
	rates *RateProvider,
	converter currency.Converter,
	log zerolog.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:  txRunner,
		repos:     repos,
		rates:     rates,
		converter: converter,
		metrics:   nopMetrics{},
		log:       log,
		tracer:    otel.Tracer("caja/sales"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics registra el observador de métricas.
func (uc *SaleUseCase) WithMetrics(m Metrics) *SaleUseCase {
	if m != nil {
		uc.metrics = m
	}
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// Converter conversor de monedas configurado.
func (uc *SaleUseCase) Converter() currency.Converter { return uc.converter }
