package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/scrap-api/internal/application/auth"
	"github.com/jhoicas/scrap-api/internal/application/inventory"
	"github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ScrapUC         *scrap.ScrapUseCase
	ScrapPDF        *scrap.PDFUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canScrap := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	scrapHandler := NewScrapHandler(deps.ScrapUC, deps.ScrapPDF)
	protected.Get("/lots", scrapHandler.ListLots)

	scraps := protected.Group("/scraps")
	scraps.Post("/onchange-lots", scrapHandler.OnchangeLots)
	scraps.Post("/", scrapHandler.Create)
	scraps.Get("/", scrapHandler.List)
	scraps.Get("/:id", scrapHandler.GetByID)
	scraps.Put("/:id", scrapHandler.Update)
	scraps.Get("/:id/availability", scrapHandler.Availability)
	scraps.Post("/:id/validate", canScrap, scrapHandler.Validate)
	scraps.Post("/:id/confirm", canScrap, scrapHandler.Confirm)
	scraps.Get("/:id/pdf", scrapHandler.DownloadPDF)

	if deps.ReplenishmentUC != nil {
		replenishmentHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
		protected.Get("/replenishments", replenishmentHandler.ListPending)
	}
}
