// Package memory implementa los puertos de persistencia en memoria.
// Cada transacción trabaja sobre una copia del estado que solo se publica al confirmar,
// así un error a mitad de camino no deja rastro (mismo contrato que PostgreSQL).
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

type saleRow struct {
	header         entity.Sale // sin Items ni Payments
	legacyItems    []byte
	legacyPayments []byte
}

type state struct {
	products     map[string]entity.Product
	rawMaterials map[string]entity.RawMaterial
	movements    []entity.StockMovement
	sales        map[string]saleRow
	saleItems    map[string][]entity.SaleLineItem
	salePayments map[string][]entity.PaymentLine
	orders       map[string]entity.Order
	deposits     map[string][]entity.Deposit
	exchangeRate *decimal.Decimal
}

func newState() *state {
	return &state{
		products:     map[string]entity.Product{},
		rawMaterials: map[string]entity.RawMaterial{},
		sales:        map[string]saleRow{},
		saleItems:    map[string][]entity.SaleLineItem{},
		salePayments: map[string][]entity.PaymentLine{},
		orders:       map[string]entity.Order{},
		deposits:     map[string][]entity.Deposit{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.rawMaterials {
		c.rawMaterials[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.saleItems {
		c.saleItems[k] = append([]entity.SaleLineItem(nil), v...)
	}
	for k, v := range s.salePayments {
		c.salePayments[k] = append([]entity.PaymentLine(nil), v...)
	}
	for k, v := range s.orders {
		v.Items = append([]entity.OrderLineItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range s.deposits {
		c.deposits[k] = append([]entity.Deposit(nil), v...)
	}
	if s.exchangeRate != nil {
		r := *s.exchangeRate
		c.exchangeRate = &r
	}
	return c
}

// Store almacén en memoria. Las transacciones se serializan con un único mutex,
// lo que equivale a bloquear todas las filas que toca cada transacción.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del estado; si fn termina sin error la copia pasa a ser el estado.
// Un error o un panic descartan la copia.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(reposFor(&access{tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.state = work
	return nil
}

// Repos devuelve repositorios fuera de transacción (lecturas y escrituras de una sola sentencia).
func (s *Store) Repos() repository.TxRepos {
	return reposFor(&access{store: s})
}

func reposFor(a *access) repository.TxRepos {
	return repository.TxRepos{
		Products:     &ProductRepository{a: a},
		RawMaterials: &RawMaterialRepository{a: a},
		Movements:    &StockMovementRepository{a: a},
		Sales:        &SaleRepository{a: a},
		Orders:       &OrderRepository{a: a},
		Settings:     &SettingsRepository{a: a},
	}
}

// access resuelve sobre qué estado opera un repositorio: la copia de la transacción
// o el estado publicado del Store (tomando el mutex por sentencia).
type access struct {
	tx    *state
	store *Store
}

func (a *access) with(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.state)
}

// ImportLegacySale guarda una venta en el formato previo a las tablas normalizadas:
// solo cabecera y los blobs JSON de líneas y pagos.
func (s *Store) ImportLegacySale(header entity.Sale, itemsJSON, paymentsJSON []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	header.Items, header.Payments = nil, nil
	s.state.sales[header.ID] = saleRow{header: header, legacyItems: itemsJSON, legacyPayments: paymentsJSON}
}
