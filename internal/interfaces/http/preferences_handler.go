package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/usecase"
)

// PreferencesHandler tema, idioma y vista activa.
type PreferencesHandler struct {
	uc *usecase.PreferencesUseCase
}

// NewPreferencesHandler construye el handler.
func NewPreferencesHandler(uc *usecase.PreferencesUseCase) *PreferencesHandler {
	return &PreferencesHandler{uc: uc}
}

// Get godoc
// @Summary      Preferencias
// @Tags         preferences
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.Preferences
// @Router       /api/preferences [get]
func (h *PreferencesHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.Get(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}

// Update godoc
// @Summary      Actualizar preferencias
// @Tags         preferences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdatePreferencesRequest  true  "theme, language, activeTab"
// @Success      200  {object}  entity.Preferences
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/preferences [put]
func (h *PreferencesHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePreferencesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.Update(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}
