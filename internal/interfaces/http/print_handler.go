package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/printing"
)

// PrintHandler etiquetas, tickets e historial de impresión.
type PrintHandler struct {
	uc *printing.PrintUseCase
}

// NewPrintHandler construye el handler.
func NewPrintHandler(uc *printing.PrintUseCase) *PrintHandler {
	return &PrintHandler{uc: uc}
}

// Label godoc
// @Summary      Imprimir etiquetas de producto
// @Description  Asigna un EAN-8 si el producto no tiene código de barras.
// @Tags         print
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PrintLabelRequest  true  "product_id, copies, printer_name"
// @Success      200   {object}  dto.PrintJobResponse
// @Failure      502   {object}  dto.PrintErrorResponse
// @Router       /api/print/label [post]
func (h *PrintHandler) Label(c *fiber.Ctx) error {
	var in dto.PrintLabelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PrintLabel(c.UserContext(), in)
	return h.respond(c, out, err)
}

// Receipt imprime el ticket de una venta.
func (h *PrintHandler) Receipt(c *fiber.Ctx) error {
	var in dto.PrintReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PrintReceipt(c.UserContext(), in)
	return h.respond(c, out, err)
}

// ReturnReceipt imprime el comprobante de una devolución.
func (h *PrintHandler) ReturnReceipt(c *fiber.Ctx) error {
	var in dto.PrintReturnReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PrintReturnReceipt(c.UserContext(), in)
	return h.respond(c, out, err)
}

// Jobs historial de trabajos de impresión.
func (h *PrintHandler) Jobs(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.uc.ListJobs(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// respond devuelve el trabajo incluso cuando la impresión falló, para que la caja
// pueda mostrar el id del trabajo en failed.
func (h *PrintHandler) respond(c *fiber.Ctx, job *dto.PrintJobResponse, err error) error {
	if err == nil {
		return c.JSON(job)
	}
	if job == nil {
		return writeError(c, err)
	}
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	if m, ok := lookupError(err); ok {
		status, code = m.status, m.code
	}
	return c.Status(status).JSON(dto.PrintErrorResponse{Code: code, Message: err.Error(), Job: job})
}
