package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cep_address_backend/internal/address"
	"cep_address_backend/internal/address/transport"
	apphttp "cep_address_backend/internal/http"
	"cep_address_backend/internal/http/router"
	"cep_address_backend/platform/cache"
	"cep_address_backend/platform/config"
	"cep_address_backend/platform/logger"
	"cep_address_backend/platform/tracing"
	"cep_address_backend/platform/validator"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	shutdownTracing, err := tracing.Init(cfg)
	if err != nil {
		log.Error("failed to initialize tracing", "error", err)
		panic("failed to initialize tracing: " + err.Error())
	}
	if cfg.IsTracingEnabled() {
		log.Info("tracing enabled", "zipkin", cfg.GetZipkinURL())
	}

	store, health, closeStore := initAddressCache(ctx, cfg, log)
	defer closeStore()

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	addressModule := address.NewModule(cfg, store, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: health,
		Modules: []apphttp.Module{
			addressModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(engine, cfg.GetServiceName()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clearCacheOnSignal(gctx, hup, addressModule.Service(), log)
		return nil
	})
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if tErr := shutdownTracing(shutdownCtx); tErr != nil {
			log.Warn("tracer shutdown failed", "error", tErr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// clearCacheOnSignal drops every cached address each time sig fires (SIGHUP in main).
// The cache has no HTTP endpoint; this is the only way to flush it at runtime.
func clearCacheOnSignal(ctx context.Context, sig <-chan os.Signal, svc address.AddressService, log *logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-sig:
			log.Info("signal received, clearing address cache", "signal", s.String())
			if err := svc.ClearCache(ctx); err != nil {
				log.Error("failed to clear address cache", "error", err)
			}
		}
	}
}

// initAddressCache picks the Redis store when REDIS_URL is set and falls back
// to the in-process store otherwise.
func initAddressCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (cache.Store[transport.AddressResponse], apphttp.HealthChecker, func()) {
	if cfg.IsRedisCacheEnabled() {
		var store cache.Store[transport.AddressResponse]
		var health apphttp.HealthChecker
		var closeFn func()

		err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			rdb, err := cache.NewRedisClient(ctx, cfg.GetRedisURL())
			if err != nil {
				return err
			}
			store = cache.NewRedis[transport.AddressResponse](rdb,
				cache.WithPrefix(cfg.GetRedisCachePrefix()),
				cache.WithRedisTTL(cfg.GetCacheTTL()),
			)
			health = apphttp.HealthCheckFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
			closeFn = func() { _ = rdb.Close() }
			return nil
		})
		if err == nil {
			log.Info("address cache using redis", "prefix", cfg.GetRedisCachePrefix(), "ttl", cfg.GetCacheTTL())
			return store, health, closeFn
		}
		log.Warn("redis unavailable; falling back to in-memory address cache", "error", err)
	}

	mem := cache.NewMemory[transport.AddressResponse](
		cache.WithTTL(cfg.GetCacheTTL()),
		cache.WithCleanupEvery(cfg.GetCacheCleanupInterval()),
	)
	mem.StartJanitor(ctx)
	log.Info("address cache using memory", "ttl", cfg.GetCacheTTL())
	return mem, nil, func() {}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
