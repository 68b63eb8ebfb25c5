package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/inventory"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// InventoryUseCase compras de insumos y lotes de producción. Cada operación corre en una transacción.
type InventoryUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos // lecturas fuera de transacción
	log      zerolog.Logger
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(txRunner repository.TxRunner, repos repository.TxRepos, log zerolog.Logger) *InventoryUseCase {
	return &InventoryUseCase{txRunner: txRunner, repos: repos, log: log}
}

// CreateRawMaterial da de alta un insumo. Si trae stock inicial se registra como entrada en el kardex.
func (uc *InventoryUseCase) CreateRawMaterial(ctx context.Context, userID string, in dto.CreateRawMaterialRequest) (*dto.RawMaterialResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Unit) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Stock.IsNegative() || in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: stock y costo no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	rm := &entity.RawMaterial{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      strings.TrimSpace(in.Unit),
		Stock:     in.Stock,
		UnitCost:  in.UnitCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.RawMaterials.Create(ctx, rm); err != nil {
			return err
		}
		if !rm.Stock.IsPositive() {
			return nil
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			ItemKind:  entity.ItemKindRawMaterial,
			ItemID:    rm.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  rm.Stock,
			UnitCost:  rm.UnitCost,
			Reference: "INITIAL",
			CreatedBy: userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toRawMaterialResponse(rm), nil
}

// ListRawMaterials lista insumos por nombre.
func (uc *InventoryUseCase) ListRawMaterials(ctx context.Context, page dto.PageRequest) (*dto.RawMaterialListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.RawMaterials.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.RawMaterialListResponse{
		Items: make([]dto.RawMaterialResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, rm := range list {
		out.Items = append(out.Items, *toRawMaterialResponse(rm))
	}
	return out, nil
}

// RegisterPurchase entrada de insumo comprado; recalcula el costo promedio ponderado.
func (uc *InventoryUseCase) RegisterPurchase(ctx context.Context, userID, rawMaterialID string, in dto.PurchaseRequest) (*dto.RawMaterialResponse, error) {
	reference := in.Reference
	if reference == "" {
		reference = "PURCHASE-" + uuid.New().String()
	}
	var updated *entity.RawMaterial
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		updated, err = NewLedger(repos, userID, time.Now().UTC()).ReceiveRawMaterial(ctx, rawMaterialID, in.Quantity, in.UnitCost, reference)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("raw_material_id", rawMaterialID).
		Str("quantity", in.Quantity.String()).
		Str("unit_cost", updated.UnitCost.String()).
		Msg("compra de insumo registrada")
	return toRawMaterialResponse(updated), nil
}

// RegisterProduction consume insumos y da entrada al producto terminado.
// Costo del lote = Σ costo consumido / unidades producidas; el producto se repondera con ese costo.
func (uc *InventoryUseCase) RegisterProduction(ctx context.Context, userID string, in dto.ProductionRequest) (*dto.ProductionResponse, error) {
	if in.OutputQuantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if len(in.Inputs) == 0 {
		return nil, fmt.Errorf("%w: el lote no consume insumos", domain.ErrInvalidInput)
	}
	batchID := uuid.New().String()
	reference := "PRODUCTION-" + batchID
	out := &dto.ProductionResponse{BatchID: batchID, ProductID: in.ProductID, OutputQuantity: in.OutputQuantity}

	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		ledger := NewLedger(repos, userID, time.Now().UTC())
		for _, input := range in.Inputs {
			cost, err := ledger.ConsumeRawMaterial(ctx, input.RawMaterialID, input.Quantity, reference)
			if err != nil {
				return err
			}
			out.ConsumedCost = out.ConsumedCost.Add(cost)
		}
		out.BatchUnitCost = inventory.BatchUnitCost(out.ConsumedCost, in.OutputQuantity)
		p, err := ledger.ReceiveProduct(ctx, in.ProductID, in.OutputQuantity, out.BatchUnitCost, reference)
		if err != nil {
			return err
		}
		out.NewQuantity = p.Quantity
		out.NewUnitCost = *p.UnitCost
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("batch_id", batchID).
		Str("product_id", in.ProductID).
		Int64("output_quantity", in.OutputQuantity).
		Str("consumed_cost", out.ConsumedCost.String()).
		Msg("lote de producción registrado")
	return out, nil
}

// Movements kardex de un producto o insumo, más recientes primero.
func (uc *InventoryUseCase) Movements(ctx context.Context, kind, itemID string, limit int) ([]dto.MovementResponse, error) {
	if kind != entity.ItemKindProduct && kind != entity.ItemKindRawMaterial {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repos.Movements.ListByItem(ctx, kind, itemID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			ItemKind:  m.ItemKind,
			ItemID:    m.ItemID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Reference: m.Reference,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

func toRawMaterialResponse(rm *entity.RawMaterial) *dto.RawMaterialResponse {
	return &dto.RawMaterialResponse{
		ID:        rm.ID,
		Name:      rm.Name,
		Unit:      rm.Unit,
		Stock:     rm.Stock,
		UnitCost:  rm.UnitCost,
		CreatedAt: rm.CreatedAt,
		UpdatedAt: rm.UpdatedAt,
	}
}
