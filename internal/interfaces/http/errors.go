package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// statusByCode estado HTTP por código de dominio; lo que no aparece es 500.
var statusByCode = map[string]int{
	"INVALID_INPUT":          fiber.StatusBadRequest,
	"INVALID_AMOUNT":         fiber.StatusBadRequest,
	"INVALID_EXCHANGE_RATE":  fiber.StatusBadRequest,
	"INVALID_PAYMENT_AMOUNT": fiber.StatusBadRequest,
	"UNSUPPORTED_CURRENCY":   fiber.StatusBadRequest,
	"INVALID_QUANTITY":       fiber.StatusBadRequest,
	"INVALID_DISCOUNT":       fiber.StatusBadRequest,
	"MISSING_PRICE":          fiber.StatusUnprocessableEntity,
	"NOT_FOUND":              fiber.StatusNotFound,
	"PRODUCT_NOT_FOUND":      fiber.StatusNotFound,
	"RAW_MATERIAL_NOT_FOUND": fiber.StatusNotFound,
	"SALE_NOT_FOUND":         fiber.StatusNotFound,
	"ORDER_NOT_FOUND":        fiber.StatusNotFound,
	"INSUFFICIENT_STOCK":     fiber.StatusConflict,
	"INSUFFICIENT_PAYMENT":   fiber.StatusConflict,
	"ORDER_NOT_PENDING":      fiber.StatusConflict,
	"CONFLICT":               fiber.StatusConflict,
	"UNAUTHORIZED":           fiber.StatusUnauthorized,
	"FORBIDDEN":              fiber.StatusForbidden,
}

// respondError traduce err a {code, message}. Los 500 se registran y no exponen el detalle.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status, ok := statusByCode[code]
	if !ok {
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("code", code).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// bindJSON decodifica el body y aplica las reglas `validate` del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

// bindQuery igual que bindJSON pero desde la query string.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: parámetros inválidos", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(fields, ", "))
}
