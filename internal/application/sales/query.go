package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Get devuelve la venta hidratada con líneas y pagos.
func (uc *SaleUseCase) Get(ctx context.Context, saleID string) (*entity.Sale, error) {
	return uc.load(ctx, uc.repos, saleID)
}

// List ventas con created_at dentro de [from, to] por día completo, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	start, end := dto.DayRange(from, to)
	records, err := uc.repos.Sales.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(records))
	for _, rec := range records {
		sale, err := uc.hydrate(ctx, uc.repos, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, nil
}

func (uc *SaleUseCase) load(ctx context.Context, repos repository.TxRepos, saleID string) (*entity.Sale, error) {
	rec, err := repos.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSaleNotFound, saleID)
	}
	return uc.hydrate(ctx, repos, rec)
}

// hydrate las filas normalizadas mandan; si no hay, se decodifica el blob heredado.
func (uc *SaleUseCase) hydrate(ctx context.Context, repos repository.TxRepos, rec *repository.SaleRecord) (*entity.Sale, error) {
	sale := rec.Sale
	items, err := repos.Sales.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	payments, err := repos.Sales.GetPayments(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && len(rec.LegacyItems) > 0 {
		items = decodeLegacyItems(sale.ID, rec.LegacyItems, uc.log)
	}
	if len(payments) == 0 && len(rec.LegacyPayments) > 0 {
		payments = decodeLegacyPayments(sale.ID, rec.LegacyPayments, uc.converter, uc.log)
	}
	sale.Items = items
	sale.Payments = payments
	return &sale, nil
}
