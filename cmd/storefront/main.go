package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/nirajw/eshop-storefront/internal/admin"
	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/auth"
	"github.com/nirajw/eshop-storefront/internal/cart"
	"github.com/nirajw/eshop-storefront/internal/catalog"
	"github.com/nirajw/eshop-storefront/internal/checkout"
	"github.com/nirajw/eshop-storefront/internal/orders"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/internal/ui"
	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// app bundles the wired storefront services.
type app struct {
	backend  *api.Client
	sessions *session.Store
	cart     *cart.Manager
	catalog  *catalog.Service
	auth     *auth.Service
	checkout *checkout.Service
	admin    *admin.Service
	console  *ui.Console
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	storage, err := kvstore.New(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap local storage", err)
		os.Exit(1)
	}
	defer func() {
		if closer, ok := storage.(kvstore.Closer); ok {
			if err := closer.Close(); err != nil {
				logg.Error(ctx, "error closing local storage", err)
			}
		}
	}()

	application, err := build(cfg, logg, storage)
	if err != nil {
		logg.Error(ctx, "failed to wire storefront", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"backend": cfg.API.BaseURL,
		"storage": cfg.Storage.Backend.String(),
	})
	if err := application.backend.Health(ctx); err != nil {
		logg.Warn(ctx, "backend unreachable, starting in offline mode")
	}
	logg.Info(ctx, "storefront ready")

	application.cart.PublishCount(ctx)
	if featured, err := application.catalog.Featured(ctx, 6); err == nil {
		logg.Info(logg.WithField(ctx, "featured", len(featured)), "catalog loaded")
	}
}

// build wires every service onto the shared storage and backend client.
func build(cfg *config.Config, logg *logger.Logger, storage kvstore.Store) (*app, error) {
	backend, err := api.NewClient(cfg.API, logg)
	if err != nil {
		return nil, err
	}
	sessions, err := session.NewStore(storage, logg)
	if err != nil {
		return nil, err
	}
	console := ui.NewConsole(os.Stdout)

	localCart, err := cart.NewLocalStore(storage, logg)
	if err != nil {
		return nil, err
	}
	pending, err := cart.NewPendingStore(storage, logg, cfg.Cart.PendingActionTTL())
	if err != nil {
		return nil, err
	}
	remote, err := cart.NewRemoteClient(backend, logg)
	if err != nil {
		return nil, err
	}
	cartManager, err := cart.NewManager(cart.ManagerParams{
		Sessions:  sessions,
		Local:     localCart,
		Pending:   pending,
		Remote:    remote,
		Notifier:  console,
		Navigator: console,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	cartManager.RegisterCountDisplay(console)

	orderStore, err := orders.NewStore(storage, logg)
	if err != nil {
		return nil, err
	}
	catalogService, err := catalog.NewService(catalog.ServiceParams{API: backend, Logger: logg})
	if err != nil {
		return nil, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		API:      backend,
		Sessions: sessions,
		Cart:     cartManager,
		Notifier: console,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Config:   cfg.Checkout,
		Sessions: sessions,
		Cart:     cartManager,
		Orders:   orderStore,
		API:      backend,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	adminService, err := admin.NewService(admin.ServiceParams{
		API:      backend,
		Sessions: sessions,
		Orders:   orderStore,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		backend:  backend,
		sessions: sessions,
		cart:     cartManager,
		catalog:  catalogService,
		auth:     authService,
		checkout: checkoutService,
		admin:    adminService,
		console:  console,
	}, nil
}
