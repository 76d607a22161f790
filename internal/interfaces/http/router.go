package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-presence-api/internal/application/auth"
	"github.com/jhoicas/rfid-presence-api/internal/application/catalog"
	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/application/stock"
	"github.com/jhoicas/rfid-presence-api/internal/domain/entity"
	"github.com/jhoicas/rfid-presence-api/internal/infrastructure/report"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ScanUC     *scan.UseCase
	Aggregator *stock.Aggregator
	TagUC      *catalog.TagUseCase
	LocationUC *catalog.LocationUseCase
	AuthUC     *auth.AuthUseCase
	AppName    string
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ingesta de escaneos (protegido, cualquier rol)
	scanHandler := NewScanHandler(deps.ScanUC)
	protected.Post("/scans", scanHandler.Submit)
	protected.Post("/scans/bulk", scanHandler.SubmitBulk)
	protected.Get("/presence/:epc", scanHandler.Presence)
	protected.Get("/transitions", scanHandler.History)

	// Stock on hand (protegido, cualquier rol)
	stockHandler := NewStockHandler(deps.Aggregator, report.NewStockPDFGenerator(), deps.AppName)
	stockGroup := protected.Group("/stock")
	stockGroup.Get("/", stockHandler.Snapshot)
	stockGroup.Get("/export.xlsx", stockHandler.ExportExcel)
	stockGroup.Get("/report.pdf", stockHandler.ExportPDF)
	stockGroup.Post("/recompute", RequireRole(entity.RoleAdmin), stockHandler.Recompute)

	// Catálogo y ubicaciones (solo admin: cada escritura invalida caches)
	catalogHandler := NewCatalogHandler(deps.TagUC, deps.LocationUC)
	tags := protected.Group("/tags")
	tags.Get("/", catalogHandler.ListTags)
	tags.Get("/:hex", catalogHandler.GetTag)
	tags.Post("/", RequireRole(entity.RoleAdmin), catalogHandler.CreateTag)
	tags.Post("/import", RequireRole(entity.RoleAdmin), catalogHandler.ImportTags)

	locations := protected.Group("/locations")
	locations.Get("/", catalogHandler.ListLocations)
	locations.Get("/:code", catalogHandler.GetLocation)
	locations.Post("/", RequireRole(entity.RoleAdmin), catalogHandler.CreateLocation)
}
