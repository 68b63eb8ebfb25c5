// Package pricing resuelve el precio unitario de un producto en céntimos.
package pricing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// ProductReader lo mínimo que necesita Quote para cargar un producto.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// UnitPrice devuelve SalePrice o, en su defecto, UnitCost convertido a céntimos.
// Esa foto del precio es la que se persiste en la línea; cambios posteriores no la afectan.
func UnitPrice(p *entity.Product) (money.Cents, error) {
	switch {
	case p.SalePrice != nil:
		return money.FromDecimal(*p.SalePrice)
	case p.UnitCost != nil:
		return money.FromDecimal(*p.UnitCost)
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrMissingPrice, p.Name)
	}
}

// Quote carga el producto y lo cotiza.
func Quote(ctx context.Context, products ProductReader, productID string) (*entity.Product, money.Cents, error) {
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return nil, 0, err
	}
	if p == nil {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	price, err := UnitPrice(p)
	if err != nil {
		return nil, 0, err
	}
	return p, price, nil
}
