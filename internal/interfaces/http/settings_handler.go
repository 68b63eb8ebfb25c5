package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
)

// SettingsHandler tasa de cambio por defecto.
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetExchangeRate godoc
// @Summary      Tasa de cambio por defecto vigente
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ExchangeRateResponse
// @Router       /api/settings/exchange-rate [get]
func (h *SettingsHandler) GetExchangeRate(c *fiber.Ctx) error {
	out, err := h.uc.GetExchangeRate(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetExchangeRate godoc
// @Summary      Fijar la tasa de cambio por defecto
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetExchangeRateRequest  true  "Tasa"
// @Success      200   {object}  dto.ExchangeRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/exchange-rate [put]
func (h *SettingsHandler) SetExchangeRate(c *fiber.Ctx) error {
	var in dto.SetExchangeRateRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetExchangeRate(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
