package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/honey-inventory/internal/bootstrap"
	"github.com/jhoicas/honey-inventory/internal/interfaces/cli"
	"github.com/jhoicas/honey-inventory/pkg/config"
	"github.com/jhoicas/honey-inventory/pkg/logger"
)

func main() {
	_ = godotenv.Load() // .env opcional

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	// Los logs van a stderr; stdout queda para la salida de los comandos.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("iniciar honey")
		os.Exit(1)
	}

	code := cli.Execute(ctx, cli.Deps{
		Entities:   a.Entities,
		Warehouses: a.Warehouses,
		Locations:  a.Locations,
		Skus:       a.Skus,
		Containers: a.Containers,
		Ledger:     a.Ledger,
		Migrate:    a.Migrate,
		JWT:        cfg.JWT,
	}, os.Args[1:], os.Stderr)
	a.Close()
	os.Exit(code)
}
