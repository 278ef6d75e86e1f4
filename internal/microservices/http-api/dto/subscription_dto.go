package dto

import "foodgram/internal/microservices/http-api/service"

// SubscriptionResponse is an author as listed on the follower's subscriptions page.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func NewSubscriptionResponse(s *service.AuthorSubscription) SubscriptionResponse {
	recipes := make([]RecipeShortResponse, len(s.Recipes))
	for i := range s.Recipes {
		recipes[i] = NewRecipeShortResponse(&s.Recipes[i])
	}
	return SubscriptionResponse{
		UserResponse: NewUserResponse(s.Author, s.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}

func NewSubscriptionListResponse(p *service.SubscriptionPage) PaginatedResponse[SubscriptionResponse] {
	items := make([]SubscriptionResponse, len(p.Items))
	for i := range p.Items {
		items[i] = NewSubscriptionResponse(&p.Items[i])
	}
	return NewPaginatedResponse(items, p.Page, p.Limit, p.Total)
}
