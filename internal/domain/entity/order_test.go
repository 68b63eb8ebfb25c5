package entity_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

func TestOrder_FulfillDevuelveCopia(t *testing.T) {
	o := entity.Order{ID: "o1", Status: entity.OrderStatusPending}

	done, err := o.Fulfill("s1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusFulfilled, done.Status)
	require.NotNil(t, done.SaleID)
	assert.Equal(t, "s1", *done.SaleID)

	// el original no cambia
	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Nil(t, o.SaleID)
}

func TestOrder_EstadosTerminales(t *testing.T) {
	for _, status := range []string{entity.OrderStatusFulfilled, entity.OrderStatusCancelled} {
		o := entity.Order{ID: "o1", Status: status}
		_, err := o.Fulfill("s1")
		assert.True(t, errors.Is(err, domain.ErrOrderNotPending), status)
		_, err = o.Cancel()
		assert.True(t, errors.Is(err, domain.ErrOrderNotPending), status)
	}
}

func TestSale_Totales(t *testing.T) {
	s := entity.Sale{
		Total:    4500,
		Discount: 500,
		Items: []entity.SaleLineItem{
			{Quantity: 2, UnitPrice: 1500},
			{Quantity: 1, UnitPrice: 2000},
		},
		Payments: []entity.PaymentLine{{AmountBase: 3000}, {AmountBase: 2000}},
	}
	gross, err := s.Gross()
	require.NoError(t, err)
	paid, err := s.Paid()
	require.NoError(t, err)
	change, err := s.Change()
	require.NoError(t, err)
	assert.EqualValues(t, 5000, gross)
	assert.EqualValues(t, 5000, paid)
	assert.EqualValues(t, 500, change)
	assert.Equal(t, gross-s.Discount, s.Total)
}

func TestSale_TotalesDesbordanConError(t *testing.T) {
	s := entity.Sale{
		Items: []entity.SaleLineItem{
			{Quantity: math.MaxInt64 / 2, UnitPrice: 3},
		},
		Payments: []entity.PaymentLine{{AmountBase: math.MaxInt64}, {AmountBase: 1}},
	}
	_, err := s.Gross()
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	_, err = s.Paid()
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	_, err = s.Change()
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))

	s = entity.Sale{Items: []entity.SaleLineItem{
		{Quantity: 1, UnitPrice: math.MaxInt64},
		{Quantity: 1, UnitPrice: 1},
	}}
	_, err = s.Gross()
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := entity.Order{Items: []entity.OrderLineItem{
		{Quantity: 2, EstimatedUnitPrice: 1000},
		{Quantity: 3, EstimatedUnitPrice: 500},
	}}
	total, err := o.ItemsTotal()
	require.NoError(t, err)
	assert.EqualValues(t, 3500, total)

	o.Items = append(o.Items, entity.OrderLineItem{Quantity: 7378697629483821, EstimatedUnitPrice: 2500})
	_, err = o.ItemsTotal()
	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
}
