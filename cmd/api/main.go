// @title           Scrap API
// @version         1.0
// @description     API de desechos multi-lote: alta, validación y ejecución de desechos por lote.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/scrap-api/docs"
	"github.com/jhoicas/scrap-api/internal/application/auth"
	"github.com/jhoicas/scrap-api/internal/application/inventory"
	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain/repository"
	"github.com/jhoicas/scrap-api/internal/domain/scrap"
	"github.com/jhoicas/scrap-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/scrap-api/internal/infrastructure/pdf"
	"github.com/jhoicas/scrap-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/scrap-api/internal/interfaces/http"
	"github.com/jhoicas/scrap-api/pkg/config"
	"github.com/jhoicas/scrap-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	policy, err := scrapPolicy(cfg.Scrap)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de desechos")
	}

	// Persistencia: PostgreSQL o memoria (demos).
	var (
		txRunner          appscrap.TxRunner
		userRepo          repository.UserRepository
		replenishmentRepo repository.ReplenishmentRepository
	)
	ctx := context.Background()
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		if err := memory.SeedDemo(store, "demo1234"); err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Warn().Str("email", memory.DemoUserEmail).Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		txRunner = store
		userRepo = memory.NewUserRepository(store)
		replenishmentRepo = memory.NewReplenishmentRepository(store)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		userRepo = postgres.NewUserRepository(pool)
		replenishmentRepo = postgres.NewReplenishmentRepository(pool)
	}

	replenishmentUC := inventory.NewReplenishmentUseCase(replenishmentRepo, log)
	scrapUC := appscrap.NewScrapUseCase(txRunner, replenishmentUC, appscrap.Config{
		EntryPolicy:     policy,
		PrecisionDigits: int32(cfg.Scrap.PrecisionDigits),
		SequenceCode:    cfg.Scrap.SequenceCode,
	}, log)
	scrapPDFUC := appscrap.NewPDFUseCase(txRunner, infrapdf.NewMarotoScrapPDF())
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Scrap API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ScrapUC:         scrapUC,
		ScrapPDF:        scrapPDFUC,
		ReplenishmentUC: replenishmentUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// scrapPolicy traduce SCRAP_EMPTY_LOTS_POLICY y SCRAP_DEFAULT_QTY.
func scrapPolicy(cfg config.ScrapConfig) (scrap.QtyPolicy, error) {
	mode, err := scrap.ParseEmptyLotsPolicy(cfg.EmptyLotsPolicy)
	if err != nil {
		return scrap.QtyPolicy{}, err
	}
	def, err := decimal.NewFromString(cfg.DefaultQty)
	if err != nil {
		return scrap.QtyPolicy{}, err
	}
	return scrap.QtyPolicy{EmptyLots: mode, DefaultQty: def}, nil
}
