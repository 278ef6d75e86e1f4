package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/database"
	"foodgram/internal/cache"
	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/microservices/http-api/handler"
	"foodgram/internal/microservices/http-api/middleware"
	"foodgram/internal/microservices/http-api/repository"
	"foodgram/internal/microservices/http-api/service"
	"foodgram/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Logger
	log := logger.Init(cfg)
	log.Info("Starting foodgram API", "env", cfg.GoEnv, "addr", cfg.Address())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	tp, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		log.Error("Failed to init tracer", "error", err)
	} else if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
		}()
	}

	// 4. Database
	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrationsOnRun {
		if err := database.MigrateUp(db.SQL, log); err != nil {
			return err
		}
	}

	// 5. Reference-data cache, optional
	var refCache *cache.ReferenceCache
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn("Redis unavailable, serving reference data without cache", "error", err)
		} else {
			defer client.Close()
			refCache = cache.NewReferenceCache(client, cfg.CacheTTL, log)
		}
	}

	// 6. Services
	store := repository.NewStore(db.Gorm)
	memberships := service.NewMembershipService(store)
	services := handler.Services{
		Auth:          service.NewAuthService(store.Users, cfg),
		Users:         service.NewUserService(store.Users, store.Memberships),
		Recipes:       service.NewRecipeService(store),
		Memberships:   memberships,
		ShoppingList:  service.NewShoppingListService(store),
		Subscriptions: service.NewSubscriptionService(store, memberships),
		Catalog:       service.NewCatalogService(store.Tags, store.Ingredients, catalogCache(refCache)),
	}

	// 7. HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router := handler.NewRouter(services, handler.RouterOptions{
		Logger:       log,
		RateLimiter:  limiter,
		RecipesLimit: cfg.RecipesLimitDefault,
		Ping:         func(ctx context.Context) error { return db.SQL.PingContext(ctx) },
	})

	var h http.Handler = router
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(h)
	h = otelhttp.NewHandler(h, cfg.ServiceName, otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 8. Run until a signal arrives, then drain
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := limiter.Sweep(); n > 0 {
					log.Debug("Rate limiter swept idle clients", "removed", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}

// catalogCache keeps a nil *ReferenceCache from becoming a non-nil interface.
func catalogCache(c *cache.ReferenceCache) service.ReferenceCache {
	if c == nil {
		return nil
	}
	return c
}
