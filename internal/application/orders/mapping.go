package orders

import (
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// ToOrderResponse convierte un encargo (con abonos) en su DTO.
func ToOrderResponse(v *OrderView) (*dto.OrderResponse, error) {
	o := v.Order
	deposited, err := v.Deposited()
	if err != nil {
		return nil, err
	}
	balance, err := money.Add(o.EstimatedTotal, -deposited)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderResponse{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		DeliveryDate:   o.DeliveryDate,
		Status:         o.Status,
		SaleID:         o.SaleID,
		Notes:          o.Notes,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		Items:          make([]dto.OrderItemResponse, 0, len(o.Items)),
		EstimatedTotal: o.EstimatedTotal.Decimal(),
		Deposits:       make([]dto.DepositResponse, 0, len(v.Deposits)),
		Deposited:      deposited.Decimal(),
		Balance:        balance.Decimal(),
	}
	for _, it := range o.Items {
		sub, err := it.Subtotal()
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:          it.ProductID,
			Quantity:           it.Quantity,
			EstimatedUnitPrice: it.EstimatedUnitPrice.Decimal(),
			Subtotal:           sub.Decimal(),
		})
	}
	for _, dep := range v.Deposits {
		out.Deposits = append(out.Deposits, ToDepositResponse(&dep))
	}
	return out, nil
}

// ToDepositResponse convierte un abono en su DTO.
func ToDepositResponse(dep *entity.Deposit) dto.DepositResponse {
	return dto.DepositResponse{
		ID:        dep.ID,
		Amount:    dep.Amount.Decimal(),
		Method:    dep.Method,
		CreatedAt: dep.CreatedAt,
	}
}

// ToOrderListResponse lista de encargos con el rango consultado.
func ToOrderListResponse(list []*OrderView, from, to string) (*dto.OrderListResponse, error) {
	out := &dto.OrderListResponse{Items: make([]dto.OrderResponse, 0, len(list)), From: from, To: to}
	for _, v := range list {
		item, err := ToOrderResponse(v)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *item)
	}
	return out, nil
}

// ToFinalizeResponse encargo entregado junto con su venta.
func ToFinalizeResponse(v *OrderView, res *sales.SettleResult) (*dto.FinalizeOrderResponse, error) {
	order, err := ToOrderResponse(v)
	if err != nil {
		return nil, err
	}
	sale, err := sales.ToSaleResponse(res.Sale)
	if err != nil {
		return nil, err
	}
	return &dto.FinalizeOrderResponse{Order: *order, Sale: *sale}, nil
}
