package handler

import (
	"context"
	"net/http"
	"strconv"

	"foodgram/internal/microservices/http-api/dto"
	"foodgram/internal/microservices/http-api/middleware"
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipes      service.RecipeService
	memberships  service.MembershipService
	shoppingList service.ShoppingListService
}

func NewRecipeHandler(recipes service.RecipeService, memberships service.MembershipService, shoppingList service.ShoppingListService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, memberships: memberships, shoppingList: shoppingList}
}

func (h *RecipeHandler) RegisterRoutes(public, private *gin.RouterGroup) {
	public.GET("/recipes", h.List)
	public.GET("/recipes/:id", h.Get)

	private.GET("/recipes/download_shopping_cart", h.DownloadShoppingCart)
	private.POST("/recipes", h.Create)
	private.PATCH("/recipes/:id", h.Update)
	private.DELETE("/recipes/:id", h.Delete)
	private.POST("/recipes/:id/favorite", h.toggle(models.RelationFavorite, service.DirectionAdd))
	private.DELETE("/recipes/:id/favorite", h.toggle(models.RelationFavorite, service.DirectionRemove))
	private.POST("/recipes/:id/shopping_cart", h.toggle(models.RelationShoppingCart, service.DirectionAdd))
	private.DELETE("/recipes/:id/shopping_cart", h.toggle(models.RelationShoppingCart, service.DirectionRemove))
}

func (h *RecipeHandler) List(c *gin.Context) {
	viewerID, _ := middleware.CurrentUserID(c)

	q := service.RecipeQuery{
		TagSlugs:      c.QueryArray("tags"),
		FavoritedOnly: queryFlag(c, "is_favorited"),
		InCartOnly:    queryFlag(c, "is_in_shopping_cart"),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"author": []string{"a valid integer is required"}})
			return
		}
		q.AuthorID = authorID
	}
	var ok bool
	if q.Page, ok = queryInt(c, "page", 1); !ok {
		return
	}
	if q.Limit, ok = queryInt(c, "limit", service.DefaultPageSize); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	page, err := h.recipes.List(ctx, viewerID, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeListResponse(page))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := h.recipes.Get(ctx, viewerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeResponse(view))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := h.recipes.Create(ctx, userID, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRecipeResponse(view))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	view, err := h.recipes.Update(ctx, userID, id, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeResponse(view))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.recipes.Delete(ctx, userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// toggle serves both the favorite and the shopping cart endpoints; the
// relation kind and direction are fixed per route.
func (h *RecipeHandler) toggle(kind models.RelationKind, dir service.Direction) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		recipeID, ok := pathID(c, "id")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		rel, err := h.memberships.Toggle(ctx, kind, userID, recipeID, dir)
		if err != nil {
			respondError(c, err)
			return
		}
		if dir == service.DirectionRemove {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusCreated, dto.NewRecipeShortResponse(rel.Recipe))
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	items, err := h.shoppingList.Aggregate(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := dto.ShoppingListFilename(c.GetString(middleware.ContextUsername))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(dto.RenderShoppingList(items)))
}
