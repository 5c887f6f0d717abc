package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	appanalytics "github.com/jhoicas/stock-laundry/internal/application/analytics"
	"github.com/jhoicas/stock-laundry/internal/application/auth"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/application/mirror"
	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/application/usecase"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-laundry/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/sheets"
	httpRouter "github.com/jhoicas/stock-laundry/internal/interfaces/http"
	"github.com/jhoicas/stock-laundry/pkg/config"
	"github.com/jhoicas/stock-laundry/pkg/logger"
)

// persistence repositorios según STORAGE_DRIVER.
type persistence struct {
	tx        inventory.TxRunner
	snapshots repository.SnapshotRepository
	movements repository.MovementRepository
	state     repository.StateRepository
	users     repository.UserRepository
	close     func()
}

func openPersistence(ctx context.Context, cfg *config.Config) (*persistence, error) {
	if cfg.Storage.Driver == "memory" {
		st := memory.NewStorage()
		return &persistence{
			tx: st, snapshots: st.Snapshots(), movements: st.Movements(), state: st.State(),
			users: memory.NewUserRepository(), close: func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return postgresPersistence(pool), nil
}

func postgresPersistence(pool *pgxpool.Pool) *persistence {
	return &persistence{
		tx:        postgres.NewTxRunner(pool),
		snapshots: postgres.NewSnapshotRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		state:     postgres.NewStateRepository(pool),
		users:     postgres.NewUserRepository(pool),
		close:     pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openPersistence(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir persistencia")
	}
	defer db.close()

	clock := ports.SystemClock{}
	ids := ports.UUIDGenerator{}

	store, err := inventory.NewStore(ctx, inventory.StoreDeps{
		Tx:              db.tx,
		Snapshots:       db.snapshots,
		Movements:       db.movements,
		State:           db.state,
		Clock:           clock,
		IDs:             ids,
		PrimaryLocation: cfg.Inventory.PrimaryLocation,
		Logger:          log.Component("store"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cargar inventario")
	}

	coord, err := mirror.NewCoordinator(ctx, mirror.Deps{
		Inventory: store,
		Mirror:    sheets.NewClient(cfg.Sync.HTTPTimeout()),
		State:     db.state,
		Clock:     clock,
		IDs:       ids,
		Logger:    log.Component("mirror"),
	}, mirror.Options{
		AutoPushDelay:  cfg.Sync.AutoPushDelay(),
		PullInterval:   cfg.Sync.PullInterval(),
		RequestTimeout: cfg.Sync.HTTPTimeout(),
		BootstrapURL:   cfg.Sync.ScriptURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar sincronización")
	}
	store.Subscribe(coord.NotifyChange)

	authUC := auth.NewAuthUseCase(db.users, db.state, clock, ids, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	if err := authUC.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("inicializar directorio de usuarios")
	}

	calc := restock.NewCalculator(cfg.Inventory.RestockSafetyFactor)
	// PDF: hoja de reposición por ubicación
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Stock Laundry API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "generation": store.Generation()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ItemUC:           inventory.NewItemUseCase(store, cfg.Inventory.Locations),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store),
		CatalogUC:        inventory.NewCatalogUseCase(store, cfg.Inventory.Locations),
		Replenishment:    inventory.NewReplenishmentUseCase(store, calc, clock, pdfGenerator),
		DashboardUC:      appanalytics.NewDashboardUseCase(store),
		Sync:             coord,
		UserUC:           usecase.NewUserUseCase(db.users, ids),
		PreferencesUC:    usecase.NewPreferencesUseCase(db.state),
		JWTSecret:        cfg.JWT.Secret,
	})

	coord.Start(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := app.ShutdownWithContext(shutdownCtx)
		coord.Close()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
