package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// RestockHandler lista de reposición, reposición rápida y reporte PDF.
type RestockHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewRestockHandler construye el handler.
func NewRestockHandler(uc *inventory.ReplenishmentUseCase) *RestockHandler {
	return &RestockHandler{uc: uc}
}

// List godoc
// @Summary      Requerimiento de reposición de una ubicación
// @Tags         restock
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  true   "Ubicación destino"
// @Param        period    query  string  false  "1D | 1W | 1M (default 1W)"
// @Param        q         query  string  false  "Búsqueda"
// @Success      200  {object}  dto.RestockListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/restock [get]
func (h *RestockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.GenerateReplenishmentList(c.Query("location"), c.Query("period"), c.Query("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// QuickRestock godoc
// @Summary      Reposición rápida desde la bodega principal
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                   true  "ID del representante canónico"
// @Param        body    body  dto.QuickRestockRequest  true  "location, period, amount (opcional)"
// @Success      201  {object}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/restock/{itemId} [post]
func (h *RestockHandler) QuickRestock(c *fiber.Ctx) error {
	var in dto.QuickRestockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.QuickRestock(c.Context(), GetActor(c), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de reposición
// @Tags         restock
// @Security     Bearer
// @Produce      application/pdf
// @Param        location  query  string  true   "Ubicación destino"
// @Param        period    query  string  false  "1D | 1W | 1M"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/restock/report [get]
func (h *RestockHandler) Report(c *fiber.Ctx) error {
	if !entity.PermissionsFor(GetRole(c)).CanExport {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso de exportación"})
	}
	location := c.Query("location")
	out, err := h.uc.Report(GetActor(c), location, c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "restock-"+location+".pdf"))
	return c.Send(out)
}
