package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/inventory"
)

// CatalogHandler consultas del catálogo canónico y de stock por ubicación.
type CatalogHandler struct {
	uc *inventory.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *inventory.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Catalog godoc
// @Summary      Catálogo canónico con total y distribución por ubicación
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Búsqueda"
// @Success      200  {array}  catalog.Entry
// @Router       /api/catalog [get]
func (h *CatalogHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(h.uc.Catalog(c.Query("q")))
}

// Locations godoc
// @Summary      Ubicaciones configuradas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LocationsResponse
// @Router       /api/locations [get]
func (h *CatalogHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(h.uc.Locations())
}

// LocationStock godoc
// @Summary      Stock de una ubicación con total de entradas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        location  path   string  true   "Ubicación"
// @Param        q         query  string  false  "Búsqueda"
// @Success      200  {object}  dto.LocationStockDTO
// @Router       /api/locations/{location}/stock [get]
func (h *CatalogHandler) LocationStock(c *fiber.Ctx) error {
	location, err := url.PathUnescape(c.Params("location"))
	if err != nil {
		return badBody(c)
	}
	return c.JSON(h.uc.LocationStock(location, c.Query("q")))
}
