package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/orders"
)

// OrderHandler ciclo de vida de encargos.
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear encargo (congela precios, no toca stock)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Encargo"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	order, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	out, err := orders.ToOrderResponse(&orders.OrderView{Order: order})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar encargos por fecha de entrega (inclusivo)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200   {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.DateRangeRequest
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	from, to, err := q.Parse()
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	out, err := orders.ToOrderListResponse(list, q.From, q.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener encargo con abonos y saldo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del encargo"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	view, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := orders.ToOrderResponse(view)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterDeposit godoc
// @Summary      Registrar abono
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del encargo"
// @Param        body  body  dto.DepositRequest  true  "Abono"
// @Success      201   {object}  dto.DepositResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deposits [post]
func (h *OrderHandler) RegisterDeposit(c *fiber.Ctx) error {
	var in dto.DepositRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	dep, err := h.uc.RegisterDeposit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(orders.ToDepositResponse(dep))
}

// Finalize godoc
// @Summary      Entregar encargo (abonos + pagos liquidan la venta)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del encargo"
// @Param        body  body  dto.FinalizeOrderRequest  true  "Pagos del saldo"
// @Success      200   {object}  dto.FinalizeOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/finalize [post]
func (h *OrderHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	view, res, err := h.uc.Finalize(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	out, err := orders.ToFinalizeResponse(view, res)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar encargo (los abonos se conservan)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del encargo"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	if _, err := h.uc.Cancel(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	view, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := orders.ToOrderResponse(view)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
