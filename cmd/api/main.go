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
	"github.com/jportela/almoxarifado-api/internal/application/auth"
	"github.com/jportela/almoxarifado-api/internal/application/movement"
	appnotify "github.com/jportela/almoxarifado-api/internal/application/notify"
	"github.com/jportela/almoxarifado-api/internal/application/request"
	"github.com/jportela/almoxarifado-api/internal/application/transfer"
	"github.com/jportela/almoxarifado-api/internal/application/usecase"
	infranotify "github.com/jportela/almoxarifado-api/internal/infrastructure/notify"
	"github.com/jportela/almoxarifado-api/internal/infrastructure/postgres"
	httpRouter "github.com/jportela/almoxarifado-api/internal/interfaces/http"
	"github.com/jportela/almoxarifado-api/pkg/config"
	"github.com/jportela/almoxarifado-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sink de notificaciones: Redis si está configurado, nulo si no.
	var notifier appnotify.Notifier = appnotify.Nop{}
	if cfg.Redis.Addr != "" {
		redisClient, err := infranotify.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		notifier = infranotify.NewRedisNotifier(redisClient, cfg.Redis.Channel, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("notificaciones por Redis activas")
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: notificaciones desactivadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	itemUC := usecase.NewItemUseCase(itemRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	requestUC := request.NewUseCase(txRunner, itemRepo, requestRepo, notifier)
	transferUC := transfer.NewUseCase(txRunner, itemRepo, transferRepo, userRepo, notifier)
	movementUC := movement.NewUseCase(txRunner, movementRepo, notifier)

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
		Title:    "Almoxarifado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ItemUC:     itemUC,
		LocationUC: locationUC,
		RequestUC:  requestUC,
		TransferUC: transferUC,
		MovementUC: movementUC,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
