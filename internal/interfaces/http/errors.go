package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
)

type errorMap struct {
	err    error
	status int
	code   string
}

// errorMapping asocia un error de dominio con su status HTTP y código.
// El orden importa: las variantes más específicas van primero.
var errorMapping = []errorMap{
	{domain.ErrEmptyCart, fiber.StatusBadRequest, "EMPTY_CART"},
	{domain.ErrReturnNotFound, fiber.StatusNotFound, "RETURN_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrMissingCustomer, fiber.StatusUnprocessableEntity, "MISSING_CUSTOMER"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrOverReturn, fiber.StatusConflict, "OVER_RETURN"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrBinaryNotFound, fiber.StatusServiceUnavailable, "PRINTER_BINARY_NOT_FOUND"},
	{domain.ErrExternalProcess, fiber.StatusBadGateway, "PRINT_FAILED"},
	{domain.ErrGenerationFailed, fiber.StatusInternalServerError, "BARCODE_GENERATION_FAILED"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// writeError traduce un error de la capa de aplicación a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	if m, ok := lookupError(err); ok {
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func lookupError(err error) (errorMap, bool) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return errorMap{}, false
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
}

// page lee limit/offset con los topes por defecto.
func page(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}.Normalize()
}
