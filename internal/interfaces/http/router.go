package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/application/orders"
	"github.com/jhoicas/Caja-api/internal/application/sales"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC      *sales.SaleUseCase
	OrderUC     *orders.OrderUseCase
	ProductUC   *usecase.ProductUseCase
	InventoryUC *inventory.InventoryUseCase
	SettingsUC  *usecase.SettingsUseCase
	Receipts    ReceiptRenderer
	JWTSecret   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; las escrituras
// de catálogo, inventario, ajustes y la anulación de ventas son solo para admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Receipts)
	salesGroup := api.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Delete("/:id", adminOnly, saleHandler.Void)

	// Encargos
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup := api.Group("/orders")
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/deposits", orderHandler.RegisterDeposit)
	ordersGroup.Post("/:id/finalize", orderHandler.Finalize)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)

	// Catálogo
	productHandler := NewProductHandler(deps.ProductUC, deps.InventoryUC)
	products := api.Group("/products")
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/prices", adminOnly, productHandler.UpdatePrices)
	products.Get("/:id/movements", productHandler.Movements)

	// Insumos y producción
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	rawMaterials := api.Group("/raw-materials")
	rawMaterials.Post("/", adminOnly, inventoryHandler.CreateRawMaterial)
	rawMaterials.Get("/", inventoryHandler.ListRawMaterials)
	rawMaterials.Post("/:id/purchases", adminOnly, inventoryHandler.RegisterPurchase)
	rawMaterials.Get("/:id/movements", inventoryHandler.RawMaterialMovements)
	api.Post("/production", adminOnly, inventoryHandler.RegisterProduction)

	// Ajustes
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings := api.Group("/settings")
	settings.Get("/exchange-rate", settingsHandler.GetExchangeRate)
	settings.Put("/exchange-rate", adminOnly, settingsHandler.SetExchangeRate)
}
