package handler

import (
	"context"
	"net/http"

	"foodgram/internal/microservices/http-api/dto"
	"foodgram/internal/microservices/http-api/middleware"
	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users         service.UserService
	subscriptions service.SubscriptionService
	recipesLimit  int
}

// NewUserHandler builds the user handler. recipesLimit is the number of
// recipes embedded per author when a request carries no recipes_limit.
func NewUserHandler(users service.UserService, subscriptions service.SubscriptionService, recipesLimit int) *UserHandler {
	return &UserHandler{users: users, subscriptions: subscriptions, recipesLimit: recipesLimit}
}

// RegisterRoutes mounts reads on public (optional auth) and everything
// caller-specific on private (auth required).
func (h *UserHandler) RegisterRoutes(public, private *gin.RouterGroup) {
	private.GET("/users/me", h.Me)
	private.GET("/users/subscriptions", h.Subscriptions)
	private.POST("/users/:id/subscribe", h.Subscribe)
	private.DELETE("/users/:id/subscribe", h.Unsubscribe)
	public.GET("/users", h.List)
	public.GET("/users/:id", h.Get)
}

func (h *UserHandler) List(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultPageSize)
	if !ok {
		return
	}
	viewerID, _ := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.users.List(ctx, viewerID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(result))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := h.users.Get(ctx, userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserViewResponse(view))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := h.users.Get(ctx, viewerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserViewResponse(view))
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultPageSize)
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit", h.recipesLimit)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result, err := h.subscriptions.List(ctx, userID, page, limit, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSubscriptionListResponse(result))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit", h.recipesLimit)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	entry, err := h.subscriptions.Subscribe(ctx, userID, authorID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSubscriptionResponse(entry))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.subscriptions.Unsubscribe(ctx, userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
