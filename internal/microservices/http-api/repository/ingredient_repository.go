package repository

import (
	"context"
	"fmt"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type IngredientRepository interface {
	List(ctx context.Context) ([]models.Ingredient, error)
	FindByID(ctx context.Context, id int64) (*models.Ingredient, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := r.db.WithContext(ctx).Order("name ASC, measurement_unit ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("find ingredients: %w", err)
	}
	return ingredients, nil
}
