package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"foodgram/internal/microservices/http-api/middleware"
	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP surface depends on.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Recipes       service.RecipeService
	Memberships   service.MembershipService
	ShoppingList  service.ShoppingListService
	Subscriptions service.SubscriptionService
	Catalog       service.CatalogService
}

type RouterOptions struct {
	Logger       *slog.Logger
	RateLimiter  *middleware.RateLimiter // nil disables rate limiting
	RecipesLimit int
	// Ping backs the health check; nil reports healthy.
	Ping func(ctx context.Context) error
}

// NewRouter wires every handler under /api. Reads go through OptionalAuth so
// viewer flags are filled for signed-in callers; writes require a token.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware())
	}

	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				logger.Warn("Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	public := api.Group("", middleware.OptionalAuth(svc.Auth))
	private := api.Group("", middleware.AuthMiddleware(svc.Auth))

	NewAuthHandler(svc.Auth).RegisterRoutes(api)
	NewCatalogHandler(svc.Catalog).RegisterRoutes(public)
	NewUserHandler(svc.Users, svc.Subscriptions, opts.RecipesLimit).RegisterRoutes(public, private)
	NewRecipeHandler(svc.Recipes, svc.Memberships, svc.ShoppingList).RegisterRoutes(public, private)

	return r
}
