package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos terminados. El stock solo cambia vía ledger (ventas, producción).
type ProductUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo}
}

// Create crea un producto. La existencia inicial queda registrada como entrada en el kardex.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := nonNegative(in.SalePrice, in.UnitCost); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:         uuid.New().String(),
		Name:       name,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		SalePrice:  in.SalePrice,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if product.Quantity == 0 {
			return nil
		}
		cost := decimal.Zero
		if product.UnitCost != nil {
			cost = *product.UnitCost
		}
		return repos.Movements.Create(ctx, &entity.StockMovement{
			ID:        uuid.New().String(),
			ItemKind:  entity.ItemKindProduct,
			ItemID:    product.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  decimal.NewFromInt(product.Quantity),
			UnitCost:  cost,
			Reference: "INITIAL",
			CreatedBy: userID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *toProductResponse(p))
	}
	return out, nil
}

// UpdatePrices reemplaza precio de venta y costo. Las ventas ya liquidadas conservan su precio.
func (uc *ProductUseCase) UpdatePrices(ctx context.Context, id string, in dto.UpdatePricesRequest) (*dto.ProductResponse, error) {
	if err := nonNegative(in.SalePrice, in.UnitCost); err != nil {
		return nil, err
	}
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		if err := repos.Products.UpdatePrices(ctx, id, in.SalePrice, in.UnitCost); err != nil {
			return err
		}
		updated, err = repos.Products.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(updated), nil
}

func nonNegative(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return fmt.Errorf("%w: precio o costo negativo", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		UnitCost:   p.UnitCost,
		SalePrice:  p.SalePrice,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
