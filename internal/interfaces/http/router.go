package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-laundry/internal/application/analytics"
	"github.com/jhoicas/stock-laundry/internal/application/auth"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/application/mirror"
	"github.com/jhoicas/stock-laundry/internal/application/usecase"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ItemUC           *inventory.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	CatalogUC        *inventory.CatalogUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	DashboardUC      *analytics.DashboardUseCase
	Sync             *mirror.Coordinator
	UserUC           *usecase.UserUseCase
	PreferencesUC    *usecase.PreferencesUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	managers := RequireRole(entity.RoleAdmin, entity.RoleLeader)

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)

	// Filas de inventario
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Post("/import", managers, itemHandler.Import)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", managers, itemHandler.Create)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", managers, itemHandler.Delete)
	protected.Post("/ledger/replay", managers, itemHandler.Replay)

	// Libro de movimientos
	movements := protected.Group("/movements")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/", inventoryHandler.RegisterMovement)

	// Catálogo y ubicaciones
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/catalog", catalogHandler.Catalog)
	protected.Get("/locations", catalogHandler.Locations)
	protected.Get("/locations/:location/stock", catalogHandler.LocationStock)

	// Reposición
	restock := protected.Group("/restock")
	restockHandler := NewRestockHandler(deps.Replenishment)
	restock.Get("/", restockHandler.List)
	restock.Get("/report", managers, restockHandler.Report)
	restock.Post("/:itemId", restockHandler.QuickRestock)

	// Tablero
	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).GetSummary)

	// Espejo remoto
	sync := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.Sync)
	sync.Get("/status", syncHandler.Status)
	sync.Get("/config", managers, syncHandler.GetConfig)
	sync.Put("/config", managers, syncHandler.PutConfig)
	sync.Post("/push", syncHandler.Push)
	sync.Post("/pull", syncHandler.Pull)

	// Usuarios
	users := protected.Group("/users", managers)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Delete("/:id", userHandler.Delete)

	// Preferencias
	prefs := protected.Group("/preferences")
	prefsHandler := NewPreferencesHandler(deps.PreferencesUC)
	prefs.Get("/", prefsHandler.Get)
	prefs.Put("/", prefsHandler.Update)
}
