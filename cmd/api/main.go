package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/hastilong/storefront/api/middleware"
	"github.com/hastilong/storefront/api/routes"
	"github.com/hastilong/storefront/internal/admin"
	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/internal/session"
	"github.com/hastilong/storefront/internal/signin"
	"github.com/hastilong/storefront/pkg/config"
	"github.com/hastilong/storefront/pkg/db"
	"github.com/hastilong/storefront/pkg/identity"
	"github.com/hastilong/storefront/pkg/instance"
	"github.com/hastilong/storefront/pkg/kv"
	"github.com/hastilong/storefront/pkg/logger"
	"github.com/hastilong/storefront/pkg/metrics"
	"github.com/hastilong/storefront/pkg/migrate"
	"github.com/hastilong/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

// backend is the storage selected by STOREFRONT_STORAGE_DRIVER.
type backend struct {
	store     kv.Store
	rateStore middleware.RateLimitStore
	pingers   map[string]kv.Pinger
	closers   []io.Closer
}

func (b *backend) Close() error {
	var errs error
	for _, c := range b.closers {
		errs = multierr.Append(errs, c.Close())
	}
	return errs
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"storage":  cfg.Storage.Driver,
		"instance": instance.GetID(),
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	storage, err := openBackend(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(ctx, "error closing storage", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewStorefront(reg)

	products, err := catalog.NewService(catalog.SeedProducts())
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	if cfg.Admin.PasswordHash == "" {
		logg.Warn(ctx, "admin password hash not set, admin login disabled")
	}
	adminSvc, err := admin.NewService(cfg.Admin.PasswordHash, products)
	if err != nil {
		return fmt.Errorf("build admin service: %w", err)
	}

	provider, err := identityProvider(ctx, cfg, logg)
	if err != nil {
		return err
	}

	sessions, err := session.NewRegistry(session.Options{
		Store:      storage.store,
		Dispatcher: signin.NewMockDispatcher(cfg.SignIn.DispatchDelay),
		Provider:   provider,
		Links:      signin.NewLinkBuilder(cfg.SignIn.MessagingBaseURL, cfg.SignIn.CountryCode),
		Metrics:    recorder,
		Logger:     logg,
		IdleTTL:    cfg.Session.IdleTTL,
		FeedSize:   cfg.Session.FeedSize,
	})
	if err != nil {
		return fmt.Errorf("build session registry: %w", err)
	}
	go sessions.Run(ctx, cfg.Session.SweepInterval)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Sessions:  sessions,
			Catalog:   products,
			Admin:     adminSvc,
			RateStore: storage.rateStore,
			Pingers:   storage.pingers,
			Metrics:   reg,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return multierr.Combine(server.Shutdown(shutdownCtx), <-errCh)
}

func openBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		return &backend{
			store:     client.KeyValueStore(cfg.Storage.KeyTTL),
			rateStore: client,
			pingers:   map[string]kv.Pinger{"redis": client},
			closers:   []io.Closer{client},
		}, nil
	case config.StorageDriverDB:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		sqlDB, err := client.DB().DB()
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("sql handle: %w", err), client.Close())
		}
		if err := migrate.MaybeAutoRun(ctx, cfg.DB, logg, sqlDB); err != nil {
			return nil, multierr.Append(fmt.Errorf("run migrations: %w", err), client.Close())
		}
		store, err := db.NewKeyValueStore(ctx, client)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("bootstrap kv table: %w", err), client.Close())
		}
		return &backend{
			store:     store,
			rateStore: kv.NewMemory(),
			pingers:   map[string]kv.Pinger{"database": client},
			closers:   []io.Closer{client},
		}, nil
	default:
		mem := kv.NewMemory()
		return &backend{
			store:     mem,
			rateStore: mem,
			pingers:   map[string]kv.Pinger{"memory": mem},
		}, nil
	}
}

func identityProvider(ctx context.Context, cfg *config.Config, logg *logger.Logger) (identity.Provider, error) {
	if !cfg.Identity.Enabled() {
		logg.Info(ctx, "google client id not set, federated sign-in disabled")
		return identity.Disabled{}, nil
	}
	google, err := identity.NewGoogle(cfg.Identity.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("build google identity provider: %w", err)
	}
	return google, nil
}
