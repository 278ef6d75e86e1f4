package service

import (
	"context"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

// ReferenceCache holds the full tag and ingredient lists. A miss returns ok=false.
type ReferenceCache interface {
	Tags(ctx context.Context) ([]models.Tag, bool)
	SetTags(ctx context.Context, tags []models.Tag)
	Ingredients(ctx context.Context) ([]models.Ingredient, bool)
	SetIngredients(ctx context.Context, ingredients []models.Ingredient)
}

// CatalogService serves the read-only tag and ingredient reference data.
type CatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id int64) (*models.Tag, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error)
}

type catalogService struct {
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	cache       ReferenceCache
}

func NewCatalogService(tags repository.TagRepository, ingredients repository.IngredientRepository, cache ReferenceCache) CatalogService {
	return &catalogService{tags: tags, ingredients: ingredients, cache: cache}
}

func (s *catalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if s.cache != nil {
		if tags, ok := s.cache.Tags(ctx); ok {
			return tags, nil
		}
	}
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, storageError("list tags", err)
	}
	if s.cache != nil {
		s.cache.SetTags(ctx, tags)
	}
	return tags, nil
}

func (s *catalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("tag", id)
		}
		return nil, storageError("get tag", err)
	}
	return tag, nil
}

func (s *catalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	if s.cache != nil {
		if ingredients, ok := s.cache.Ingredients(ctx); ok {
			return ingredients, nil
		}
	}
	ingredients, err := s.ingredients.List(ctx)
	if err != nil {
		return nil, storageError("list ingredients", err)
	}
	if s.cache != nil {
		s.cache.SetIngredients(ctx, ingredients)
	}
	return ingredients, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("ingredient", id)
		}
		return nil, storageError("get ingredient", err)
	}
	return ingredient, nil
}
