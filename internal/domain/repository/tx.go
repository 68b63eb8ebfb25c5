package repository

import "context"

// TxRepos repositorios ligados a una misma transacción.
type TxRepos struct {
	Products     ProductRepository
	RawMaterials RawMaterialRepository
	Movements    StockMovementRepository
	Sales        SaleRepository
	Orders       OrderRepository
	Settings     SettingsRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil,
// rollback ante error o panic.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
