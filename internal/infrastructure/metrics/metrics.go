// Package metrics expone los contadores Prometheus de la caja.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/Caja-api/internal/application/orders"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

var (
	_ sales.Metrics  = (*Recorder)(nil)
	_ orders.Metrics = (*Recorder)(nil)
)

// Recorder agrupa los collectors de dominio y HTTP.
type Recorder struct {
	settlements  *prometheus.CounterVec
	saleTotal    *prometheus.HistogramVec
	voids        *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewRecorder crea y registra los collectors. Con reg nil usa el registerer por defecto.
func NewRecorder(namespace string, reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Liquidaciones de venta por tipo y resultado.",
		}, []string{"kind", "result"}),
		saleTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_total_cents",
			Help:      "Total neto de las ventas confirmadas, en céntimos de la moneda base.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
		}, []string{"kind"}),
		voids: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sale_voids_total",
			Help:      "Anulaciones de venta por resultado.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Operaciones sobre encargos por transición y resultado.",
		}, []string{"transition", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "Latencia de las peticiones HTTP en milisegundos.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
	}
	r.settlements = mustRegister(reg, r.settlements)
	r.saleTotal = mustRegister(reg, r.saleTotal)
	r.voids = mustRegister(reg, r.voids)
	r.transitions = mustRegister(reg, r.transitions)
	r.httpRequests = mustRegister(reg, r.httpRequests)
	r.httpDuration = mustRegister(reg, r.httpDuration)
	return r
}

// mustRegister registra c; si ya existía uno equivalente lo reutiliza.
func mustRegister[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// SettlementObserved cuenta la liquidación; el histograma solo recibe ventas confirmadas.
func (r *Recorder) SettlementObserved(kind, result string, total money.Cents) {
	r.settlements.WithLabelValues(kind, result).Inc()
	if result == "ok" {
		r.saleTotal.WithLabelValues(kind).Observe(float64(total))
	}
}

func (r *Recorder) VoidObserved(result string) {
	r.voids.WithLabelValues(result).Inc()
}

func (r *Recorder) OrderTransition(transition, result string) {
	r.transitions.WithLabelValues(transition, result).Inc()
}

// Middleware mide peticiones por ruta registrada (no por path crudo, para acotar cardinalidad).
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		route := c.Route().Path
		r.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		r.httpDuration.WithLabelValues(c.Method(), route).Observe(float64(time.Since(start).Milliseconds()))
		return err
	}
}
