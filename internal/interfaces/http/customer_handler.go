package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/dto"
)

// CustomerHandler clientes, deudas y abonos.
type CustomerHandler struct {
	uc *debt.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *debt.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List clientes con su saldo.
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID cliente con su saldo.
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Debts deudas del cliente; ?open=true solo las pendientes.
func (h *CustomerHandler) Debts(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.ListDebts(c.UserContext(), id, c.QueryBool("open", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Transactions historial de cargos, abonos y reducciones.
func (h *CustomerHandler) Transactions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	out, err := h.uc.ListTransactions(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Pay godoc
// @Summary      Registrar abono a la deuda del cliente
// @Description  Se aplica a las deudas abiertas, la más antigua primero.
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del cliente"
// @Param        body  body  dto.PayDebtRequest  true  "amount_cents, note"
// @Success      201   {object}  dto.PayDebtResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/payments [post]
func (h *CustomerHandler) Pay(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	var in dto.PayDebtRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PayDebt(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
