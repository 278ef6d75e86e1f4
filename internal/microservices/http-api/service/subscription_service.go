package service

import (
	"context"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

// AuthorSubscription is one followed author with a capped preview of their recipes.
type AuthorSubscription struct {
	Author       models.User
	IsSubscribed bool
	RecipesCount int64
	Recipes      []models.Recipe
}

type SubscriptionPage struct {
	Items []AuthorSubscription
	Total int64
	Page  int
	Limit int
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorSubscription, error)
	Unsubscribe(ctx context.Context, userID, authorID int64) error
	// List returns the authors userID follows ordered by username.
	// recipesLimit <= 0 embeds every recipe of each author.
	List(ctx context.Context, userID int64, page, limit, recipesLimit int) (*SubscriptionPage, error)
}

type subscriptionService struct {
	store       *repository.Store
	memberships MembershipService
}

func NewSubscriptionService(store *repository.Store, memberships MembershipService) SubscriptionService {
	return &subscriptionService{store: store, memberships: memberships}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorSubscription, error) {
	rel, err := s.memberships.Add(ctx, models.RelationSubscription, userID, authorID)
	if err != nil {
		return nil, err
	}
	entries, err := s.project(ctx, []models.User{*rel.Author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	return s.memberships.Remove(ctx, models.RelationSubscription, userID, authorID)
}

func (s *subscriptionService) List(ctx context.Context, userID int64, page, limit, recipesLimit int) (*SubscriptionPage, error) {
	page, limit, offset := normalizePage(page, limit)

	authors, total, err := s.store.Users.ListSubscribedAuthors(ctx, userID, offset, limit)
	if err != nil {
		return nil, storageError("list subscriptions", err)
	}
	entries, err := s.project(ctx, authors, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &SubscriptionPage{Items: entries, Total: total, Page: page, Limit: limit}, nil
}

// project attaches recipe counts and capped recipe lists to authors the caller follows.
func (s *subscriptionService) project(ctx context.Context, authors []models.User, recipesLimit int) ([]AuthorSubscription, error) {
	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.store.Recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, storageError("count recipes", err)
	}

	entries := make([]AuthorSubscription, len(authors))
	for i, author := range authors {
		recipes, err := s.store.Recipes.ListByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, storageError("list author recipes", err)
		}
		entries[i] = AuthorSubscription{
			Author:       author,
			IsSubscribed: true,
			RecipesCount: counts[author.ID],
			Recipes:      recipes,
		}
	}
	return entries, nil
}
