package app

import (
	"io"
	"log/slog"

	"github.com/amirasaad/cpfledger/pkg/config"
	"github.com/amirasaad/cpfledger/pkg/eventbus"
	"github.com/amirasaad/cpfledger/pkg/ledger"
	"github.com/amirasaad/cpfledger/pkg/service/account"
	"github.com/amirasaad/cpfledger/pkg/store"
)

// Deps contains all the dependencies needed to build the App
type Deps struct {
	Store    store.AccountStore
	Engine   *ledger.Engine
	EventBus eventbus.Bus
	Logger   *slog.Logger
}

// Close releases resources held by the dependencies.
func (d *Deps) Close() error {
	if c, ok := d.EventBus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type App struct {
	Deps           *Deps
	Config         *config.App
	AccountService *account.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Store == nil {
		deps.Store = store.NewMemory()
	}
	if deps.Engine == nil {
		deps.Engine = ledger.New()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()
	app.AccountService = account.New(deps.EventBus, deps.Store, deps.Engine, deps.Logger)
	return app
}

func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	eventbus.RegisterAll(a.Deps.EventBus, eventbus.AuditHandler(a.Deps.Logger))
}
