package dto

import (
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/service"
)

type IngredientAmountRequest struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeRequest is the body of POST and PATCH /recipes. Both replace the
// whole recipe, so every field is read on update too.
type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []int64                   `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

func (r RecipeRequest) ToInput() service.RecipeInput {
	lines := make([]service.IngredientLine, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		lines[i] = service.IngredientLine{IngredientID: ing.ID, Amount: ing.Amount}
	}
	return service.RecipeInput{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		TagIDs:      r.Tags,
		Ingredients: lines,
	}
}

type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the compact form used by favorites, the shopping
// cart and subscription listings.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeResponse(v *service.RecipeView) RecipeResponse {
	resp := RecipeResponse{
		ID:               v.ID,
		Tags:             v.Tags,
		Ingredients:      make([]RecipeIngredientResponse, 0, len(v.Ingredients)),
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            v.Image,
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	if v.Author != nil {
		resp.Author = NewUserResponse(*v.Author, v.AuthorSubscribed)
	}
	for _, line := range v.Ingredients {
		item := RecipeIngredientResponse{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

func NewRecipeShortResponse(r *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func NewRecipeListResponse(p *service.RecipePage) PaginatedResponse[RecipeResponse] {
	items := make([]RecipeResponse, len(p.Items))
	for i := range p.Items {
		items[i] = NewRecipeResponse(&p.Items[i])
	}
	return NewPaginatedResponse(items, p.Page, p.Limit, p.Total)
}
