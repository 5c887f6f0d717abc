package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
)

// ItemHandler maneja las filas de inventario (protegido).
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// List godoc
// @Summary      Listar filas de inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q         query  string  false  "Búsqueda por nombre, categoría o talla"
// @Param        location  query  string  false  "Filtrar por ubicación"
// @Success      200  {array}  entity.Item
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List(c.Query("q"), c.Query("location")))
}

// GetByID godoc
// @Summary      Obtener fila por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  entity.Item
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	it, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(it)
}

// Create godoc
// @Summary      Registrar definición en una ubicación
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Definición"
// @Success      201   {object}  entity.Item
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	it, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(it)
}

// Import godoc
// @Summary      Carga masiva de datos maestros desde CSV
// @Description  Columnas: name, category, size, unit, location, usageType, minStockThreshold, dailyUsage. La primera línea es la cabecera.
// @Tags         items
// @Security     Bearer
// @Accept       text/csv
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "Archivo CSV (o el CSV como cuerpo)"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/import [post]
func (h *ItemHandler) Import(c *fiber.Ctx) error {
	var src io.Reader = bytes.NewReader(c.Body())
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return badBody(c)
		}
		defer f.Close()
		src = f
	}
	out, err := h.uc.Import(c.Context(), GetActor(c), src)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar conteo, estado o definición
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Item ID"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a cambiar"
// @Success      200   {object}  entity.Item
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	it, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(it)
}

// Delete godoc
// @Summary      Eliminar fila
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "Item ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Replay godoc
// @Summary      Reconstruir cantidades desde el libro
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReplayResponse
// @Router       /api/ledger/replay [post]
func (h *ItemHandler) Replay(c *fiber.Ctx) error {
	out, err := h.uc.Replay(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
