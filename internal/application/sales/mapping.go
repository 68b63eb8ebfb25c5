package sales

import (
	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// ToSaleResponse convierte una venta hidratada en su DTO.
func ToSaleResponse(s *entity.Sale) (*dto.SaleResponse, error) {
	gross, err := s.Gross()
	if err != nil {
		return nil, err
	}
	paid, err := s.Paid()
	if err != nil {
		return nil, err
	}
	change, err := s.Change()
	if err != nil {
		return nil, err
	}
	out := &dto.SaleResponse{
		ID:          s.ID,
		Kind:        s.Kind,
		Status:      s.Status,
		OrderID:     s.OrderID,
		UserID:      s.UserID,
		CreatedAt:   s.CreatedAt,
		Items:       make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:    make([]dto.PaymentResponse, 0, len(s.Payments)),
		Subtotal:    gross.Decimal(),
		Discount:    s.Discount.Decimal(),
		Total:       s.Total.Decimal(),
		Paid:        paid.Decimal(),
		Change:      change.Decimal(),
		TotalCents:  int64(s.Total),
		PaidCents:   int64(paid),
		ChangeCents: int64(change),
	}
	for _, it := range s.Items {
		sub, err := it.Subtotal()
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, dto.SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Decimal(),
			Subtotal:    sub.Decimal(),
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, dto.PaymentResponse{
			Currency:   p.Currency,
			Amount:     p.Amount,
			Rate:       p.Rate,
			AmountBase: p.AmountBase.Decimal(),
		})
	}
	return out, nil
}

// ToSaleListResponse lista de ventas con el rango consultado.
func ToSaleListResponse(list []*entity.Sale, from, to string) (*dto.SaleListResponse, error) {
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), From: from, To: to}
	for _, s := range list {
		item, err := ToSaleResponse(s)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *item)
	}
	return out, nil
}
