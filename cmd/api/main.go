package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/jhoicas/honey-inventory/internal/bootstrap"
	httpRouter "github.com/jhoicas/honey-inventory/internal/interfaces/http"
	"github.com/jhoicas/honey-inventory/pkg/config"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

func main() {
	_ = godotenv.Load() // .env opcional

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
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio para la API")
	}

	ctx := context.Background()
	a, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("iniciar dependencias")
	}
	defer a.Close()

	if a.Migrate != nil {
		applied, err := a.Migrate(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("esquema al día")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EntityUC:    a.Entities,
		WarehouseUC: a.Warehouses,
		LocationUC:  a.Locations,
		SkuUC:       a.Skus,
		ContainerUC: a.Containers,
		Ledger:      a.Ledger,
		JWTSecret:   cfg.JWT.Secret,
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
