package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"foodgram/internal/microservices/http-api/dto"
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pancakesView() *service.RecipeView {
	return &service.RecipeView{
		Recipe: models.Recipe{
			ID:          10,
			AuthorID:    testUserID,
			Name:        "Pancakes",
			Text:        "Mix and fry.",
			CookingTime: 20,
			Author:      &models.User{ID: testUserID, Username: testUsername},
			Tags:        []models.Tag{{ID: 1, Name: "breakfast", Color: "#E26C2D", Slug: "breakfast"}},
			Ingredients: []models.RecipeIngredient{
				{IngredientID: 5, Amount: 200, Ingredient: &models.Ingredient{ID: 5, Name: "flour", MeasurementUnit: "g"}},
			},
		},
		IsInShoppingCart: true,
	}
}

const pancakesBody = `{"name":"Pancakes","text":"Mix and fry.","cooking_time":20,
	"tags":[1],"ingredients":[{"id":5,"amount":200}]}`

func TestRecipeHandler_List(t *testing.T) {
	r, m := setupRouter()

	t.Run("anonymous with filters", func(t *testing.T) {
		m.recipes.On("List", mock.Anything, int64(0), mock.MatchedBy(func(q service.RecipeQuery) bool {
			return q.AuthorID == 2 && assert.ObjectsAreEqual([]string{"breakfast", "dinner"}, q.TagSlugs) &&
				q.FavoritedOnly && q.Page == 2 && q.Limit == service.DefaultPageSize
		})).Return(&service.RecipePage{Items: []service.RecipeView{*pancakesView()}, Total: 7, Page: 2, Limit: 6}, nil).Once()

		w := do(r, http.MethodGet, "/api/recipes?author=2&tags=breakfast&tags=dinner&is_favorited=1&page=2", "", false)
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.PaginatedResponse[dto.RecipeResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.Count)
		assert.Equal(t, 2, resp.TotalPages)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "Pancakes", resp.Results[0].Name)
		assert.True(t, resp.Results[0].IsInShoppingCart)
	})

	t.Run("bad author", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/recipes?author=abc", "", false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"author"`)
	})

	t.Run("invalid token is rejected on reads", func(t *testing.T) {
		w := doWithHeader(r, http.MethodGet, "/api/recipes", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	m.recipes.AssertExpectations(t)
}

func TestRecipeHandler_Get(t *testing.T) {
	r, m := setupRouter()

	m.recipes.On("Get", mock.Anything, testUserID, int64(10)).Return(pancakesView(), nil).Once()
	w := do(r, http.MethodGet, "/api/recipes/10", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testUsername, resp.Author.Username)
	require.Len(t, resp.Ingredients, 1)
	assert.Equal(t, dto.RecipeIngredientResponse{ID: 5, Name: "flour", MeasurementUnit: "g", Amount: 200}, resp.Ingredients[0])

	m.recipes.On("Get", mock.Anything, int64(0), int64(99)).
		Return(nil, &service.Error{Kind: service.KindNotFound, Field: "recipe", Message: "recipe 99 not found"}).Once()
	w = do(r, http.MethodGet, "/api/recipes/99", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/recipes/abc", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	m.recipes.AssertExpectations(t)
}

func TestRecipeHandler_Create(t *testing.T) {
	r, m := setupRouter()

	t.Run("requires auth", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/recipes", pancakesBody, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"detail":"missing authorization header"}`, w.Body.String())
	})

	t.Run("created", func(t *testing.T) {
		want := service.RecipeInput{
			Name:        "Pancakes",
			Text:        "Mix and fry.",
			CookingTime: 20,
			TagIDs:      []int64{1},
			Ingredients: []service.IngredientLine{{IngredientID: 5, Amount: 200}},
		}
		m.recipes.On("Create", mock.Anything, testUserID, want).Return(pancakesView(), nil).Once()

		w := do(r, http.MethodPost, "/api/recipes", pancakesBody, true)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Pancakes"`)
	})

	t.Run("validation error names the field", func(t *testing.T) {
		m.recipes.On("Create", mock.Anything, testUserID, mock.Anything).
			Return(nil, &service.Error{Kind: service.KindValidation, Field: "ingredients", Message: "ingredients must be unique"}).Once()

		w := do(r, http.MethodPost, "/api/recipes", pancakesBody, true)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []string{"ingredients must be unique"}, body["ingredients"])
	})

	t.Run("unknown tag is not found", func(t *testing.T) {
		m.recipes.On("Create", mock.Anything, testUserID, mock.Anything).
			Return(nil, &service.Error{Kind: service.KindNotFound, Field: "tag", Message: "tag 9 not found"}).Once()

		w := do(r, http.MethodPost, "/api/recipes", pancakesBody, true)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/recipes", `{"name":`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("storage fault hides the cause", func(t *testing.T) {
		m.recipes.On("Create", mock.Anything, testUserID, mock.Anything).
			Return(nil, &service.Error{Kind: service.KindStorage, Message: "create recipe", Err: errors.New("connection reset")}).Once()

		w := do(r, http.MethodPost, "/api/recipes", pancakesBody, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	m.recipes.AssertExpectations(t)
}

func TestRecipeHandler_UpdateAndDelete(t *testing.T) {
	r, m := setupRouter()

	m.recipes.On("Update", mock.Anything, testUserID, int64(10), mock.Anything).Return(pancakesView(), nil).Once()
	w := do(r, http.MethodPatch, "/api/recipes/10", pancakesBody, true)
	assert.Equal(t, http.StatusOK, w.Code)

	m.recipes.On("Update", mock.Anything, testUserID, int64(11), mock.Anything).
		Return(nil, &service.Error{Kind: service.KindForbidden, Message: "only the author can change this recipe"}).Once()
	w = do(r, http.MethodPatch, "/api/recipes/11", pancakesBody, true)
	assert.Equal(t, http.StatusForbidden, w.Code)

	m.recipes.On("Delete", mock.Anything, testUserID, int64(10)).Return(nil).Once()
	w = do(r, http.MethodDelete, "/api/recipes/10", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	m.recipes.AssertExpectations(t)
}

func TestRecipeHandler_Toggle(t *testing.T) {
	r, m := setupRouter()
	recipe := &models.Recipe{ID: 10, Name: "Pancakes", CookingTime: 20, Image: "images/p.png"}

	m.memberships.On("Toggle", mock.Anything, models.RelationFavorite, testUserID, int64(10), service.DirectionAdd).
		Return(&service.Relation{Recipe: recipe}, nil).Once()
	w := do(r, http.MethodPost, "/api/recipes/10/favorite", "", true)
	require.Equal(t, http.StatusCreated, w.Code)

	var short dto.RecipeShortResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &short))
	assert.Equal(t, dto.RecipeShortResponse{ID: 10, Name: "Pancakes", Image: "images/p.png", CookingTime: 20}, short)

	m.memberships.On("Toggle", mock.Anything, models.RelationShoppingCart, testUserID, int64(10), service.DirectionAdd).
		Return(nil, &service.Error{Kind: service.KindConflict, Message: "recipe is already in the shopping cart"}).Once()
	w = do(r, http.MethodPost, "/api/recipes/10/shopping_cart", "", true)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":"recipe is already in the shopping cart"}`, w.Body.String())

	m.memberships.On("Toggle", mock.Anything, models.RelationShoppingCart, testUserID, int64(10), service.DirectionRemove).
		Return(nil, nil).Once()
	w = do(r, http.MethodDelete, "/api/recipes/10/shopping_cart", "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodDelete, "/api/recipes/10/favorite", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	m.memberships.AssertExpectations(t)
}

func TestRecipeHandler_DownloadShoppingCart(t *testing.T) {
	r, m := setupRouter()

	m.shoppingList.On("Aggregate", mock.Anything, testUserID).Return([]models.ShoppingListItem{
		{IngredientID: 5, Name: "flour", MeasurementUnit: "g", TotalAmount: 500},
	}, nil).Once()

	w := do(r, http.MethodGet, "/api/recipes/download_shopping_cart", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list:\nflour - 500, g\n", w.Body.String())
	assert.Equal(t, `attachment; filename="chef_shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	m.shoppingList.On("Aggregate", mock.Anything, testUserID).Return(nil, service.ErrEmptyCart).Once()
	w = do(r, http.MethodGet, "/api/recipes/download_shopping_cart", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "shopping cart is empty")

	m.shoppingList.AssertExpectations(t)
}
