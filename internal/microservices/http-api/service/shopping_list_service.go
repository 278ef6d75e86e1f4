package service

import (
	"context"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

type ShoppingListService interface {
	// Aggregate consolidates the user's cart into one line per ingredient.
	// An empty cart is an error, not an empty list.
	Aggregate(ctx context.Context, userID int64) ([]models.ShoppingListItem, error)
}

type shoppingListService struct {
	store *repository.Store
}

func NewShoppingListService(store *repository.Store) ShoppingListService {
	return &shoppingListService{store: store}
}

func (s *shoppingListService) Aggregate(ctx context.Context, userID int64) ([]models.ShoppingListItem, error) {
	inCart, err := s.store.Memberships.Count(ctx, models.RelationShoppingCart, userID)
	if err != nil {
		return nil, storageError("count cart", err)
	}
	if inCart == 0 {
		return nil, ErrEmptyCart
	}

	items, err := s.store.ShoppingList.Aggregate(ctx, userID)
	if err != nil {
		return nil, storageError("aggregate shopping list", err)
	}
	return items, nil
}
