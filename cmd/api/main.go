package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/rfid-presence-api/internal/application/auth"
	"github.com/jhoicas/rfid-presence-api/internal/application/catalog"
	"github.com/jhoicas/rfid-presence-api/internal/application/scan"
	"github.com/jhoicas/rfid-presence-api/internal/application/stock"
	"github.com/jhoicas/rfid-presence-api/internal/infrastructure/postgres"
	"github.com/jhoicas/rfid-presence-api/internal/infrastructure/sink"
	httpRouter "github.com/jhoicas/rfid-presence-api/internal/interfaces/http"
	"github.com/jhoicas/rfid-presence-api/pkg/config"
	"github.com/jhoicas/rfid-presence-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Dur("suppression_window", cfg.Scan.SuppressionWindow).
		Dur("toggle_cooldown", cfg.Scan.ToggleCooldown).
		Msg("iniciando aplicación")

	ctx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar generador de IDs")
	}

	tagRepo := postgres.NewTagCatalogRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	presenceRepo := postgres.NewPresenceRepository(pool)
	transitionRepo := postgres.NewTransitionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tagResolver := scan.NewTagResolver(tagRepo)
	locationResolver := scan.NewLocationResolver(locationRepo)

	filter := scan.NewFilter(cfg.Scan.SuppressionWindow)
	go filter.Janitor(ctx, cfg.Scan.JanitorInterval)

	// Sink: log siempre; NATS solo si hay broker configurado.
	sinks := []scan.EventSink{sink.NewLogSink(log)}
	if cfg.NATS.URL != "" {
		natsSink, err := sink.NewNATSSink(cfg.NATS.URL, cfg.NATS.Subject)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a NATS")
		}
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
		log.Info().Str("subject", cfg.NATS.Subject).Msg("sink NATS habilitado")
	}

	aggregator := stock.NewAggregator(presenceRepo)
	if _, err := aggregator.Recompute(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar agregador de stock")
	}

	scanUC := scan.NewUseCase(
		txRunner, presenceRepo, transitionRepo, tagResolver, locationResolver,
		filter, sink.NewFanout(sinks...), aggregator,
		cfg.Scan.ToggleCooldown, node, log.Module("scan"),
	)
	tagUC := catalog.NewTagUseCase(tagRepo, tagResolver)
	locationUC := catalog.NewLocationUseCase(locationRepo, locationResolver)
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
		Title:    "RFID Presence API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ScanUC:     scanUC,
		Aggregator: aggregator,
		TagUC:      tagUC,
		LocationUC: locationUC,
		AuthUC:     authUC,
		AppName:    cfg.App.Name,
		JWTSecret:  cfg.JWT.Secret,
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
	stopJanitor()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
