package sales

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Void anula una venta: devuelve al stock lo vendido y borra la venta (líneas y pagos en cascada).
// No revalida precios ni pagos. Si la venta venía de un encargo, el encargo sigue FULFILLED sin sale_id.
func (uc *SaleUseCase) Void(ctx context.Context, saleID, userID string) (*entity.Sale, error) {
	ctx, span := uc.tracer.Start(ctx, "sales.Void")
	defer span.End()
	span.SetAttributes(attribute.String("sale.id", saleID))

	var voided *entity.Sale
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := uc.load(ctx, repos, saleID)
		if err != nil {
			return err
		}
		ledger := inventory.NewLedger(repos, userID, uc.now())
		for _, it := range sale.Items {
			if _, err := ledger.IncrementProduct(ctx, it.ProductID, it.Quantity, sale.ID); err != nil {
				return fmt.Errorf("reponer %s: %w", it.ProductID, err)
			}
		}
		if err := repos.Sales.Delete(ctx, sale.ID); err != nil {
			return err
		}
		voided = sale
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Code(err))
		uc.metrics.VoidObserved(strings.ToLower(domain.Code(err)))
		return nil, err
	}
	uc.metrics.VoidObserved("ok")
	uc.log.Info().
		Str("sale_id", voided.ID).
		Str("user_id", userID).
		Int64("total_cents", int64(voided.Total)).
		Msg("venta anulada")
	return voided, nil
}
