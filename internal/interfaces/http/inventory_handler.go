package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/inventory"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
)

// InventoryHandler insumos, compras y lotes de producción.
type InventoryHandler struct {
	uc *inventory.InventoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateRawMaterial godoc
// @Summary      Crear insumo
// @Tags         raw-materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRawMaterialRequest  true  "Insumo"
// @Success      201   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/raw-materials [post]
func (h *InventoryHandler) CreateRawMaterial(c *fiber.Ctx) error {
	var in dto.CreateRawMaterialRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateRawMaterial(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRawMaterials godoc
// @Summary      Listar insumos
// @Tags         raw-materials
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.RawMaterialListResponse
// @Router       /api/raw-materials [get]
func (h *InventoryHandler) ListRawMaterials(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return respondError(c, err)
	}
	page.DefaultPage()
	out, err := h.uc.ListRawMaterials(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterPurchase godoc
// @Summary      Registrar compra de insumo (recalcula costo promedio)
// @Tags         raw-materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del insumo"
// @Param        body  body  dto.PurchaseRequest  true  "Compra"
// @Success      200   {object}  dto.RawMaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/raw-materials/{id}/purchases [post]
func (h *InventoryHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegisterPurchase(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RawMaterialMovements godoc
// @Summary      Kardex del insumo
// @Tags         raw-materials
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del insumo"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200    {array}  dto.MovementResponse
// @Router       /api/raw-materials/{id}/movements [get]
func (h *InventoryHandler) RawMaterialMovements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.UserContext(), entity.ItemKindRawMaterial, c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterProduction godoc
// @Summary      Registrar lote de producción
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "Lote"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production [post]
func (h *InventoryHandler) RegisterProduction(c *fiber.Ctx) error {
	var in dto.ProductionRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegisterProduction(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
