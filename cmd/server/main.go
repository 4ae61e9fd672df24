package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/cpfledger/infra/initializer"
	"github.com/amirasaad/cpfledger/pkg/app"
	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/webapi"
	log "github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

// @title CPF Ledger API
// @version 1.0.0
// @description Customer accounts keyed by CPF with an append-only statement of credits and debits.
// @contact.name API Support
// @license.name MIT
// @host localhost:3000
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	fiberApp, deps, err := build(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer deps.Close() //nolint:errcheck

	deps.Logger.Info("Starting server",
		"env", cfg.Env,
		"address", cfg.Server.Addr(),
		"scheme", cfg.Server.Scheme,
		"timezone", cfg.Ledger.Timezone,
		"eventbus", cfg.EventBus.Driver,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(cfg.Server.Addr()) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		deps.Logger.Info("Shutting down server")
		if err := fiberApp.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

// build wires dependencies and returns the HTTP app ready to listen.
func build(ctx context.Context, cfg *config.App, logOut io.Writer) (*fiber.App, *app.Deps, error) {
	deps, err := initializer.InitializeDependencies(ctx, cfg, logOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return webapi.SetupApp(app.New(deps, cfg)), deps, nil
}
