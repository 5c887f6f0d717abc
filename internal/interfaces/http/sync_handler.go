package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/mirror"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// SyncHandler configuración y disparos manuales del espejo remoto.
type SyncHandler struct {
	coord *mirror.Coordinator
}

// NewSyncHandler construye el handler.
func NewSyncHandler(coord *mirror.Coordinator) *SyncHandler {
	return &SyncHandler{coord: coord}
}

// Status godoc
// @Summary      Estado de la sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  mirror.Status
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.coord.Status())
}

// GetConfig godoc
// @Summary      Configuración del espejo remoto
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.SyncConfig
// @Router       /api/sync/config [get]
func (h *SyncHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(h.coord.Config())
}

// PutConfig godoc
// @Summary      Actualizar configuración del espejo remoto
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncConfigRequest  true  "scriptUrl, isConnected, autoSync, pullLock"
// @Success      200  {object}  entity.SyncConfig
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sync/config [put]
func (h *SyncHandler) PutConfig(c *fiber.Ctx) error {
	var in dto.SyncConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cfg, err := h.coord.Configure(c.Context(), entity.SyncConfig{
		ScriptURL:   in.ScriptURL,
		IsConnected: in.IsConnected,
		AutoSync:    in.AutoSync,
		PullLock:    in.PullLock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cfg)
}

// Push godoc
// @Summary      Enviar inventario al espejo remoto
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  mirror.Result
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sync/push [post]
func (h *SyncHandler) Push(c *fiber.Ctx) error {
	res, err := h.coord.Push(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Pull godoc
// @Summary      Leer el espejo remoto
// @Description  Un disparo manual es forzado e ignora pullLock; force=false lo respeta.
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Param        force  query  bool  false  "default true"
// @Success      200  {object}  mirror.Result
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sync/pull [post]
func (h *SyncHandler) Pull(c *fiber.Ctx) error {
	res, err := h.coord.Pull(c.Context(), GetActor(c), c.QueryBool("force", true))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}
