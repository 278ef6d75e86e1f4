package repository

import (
	"context"
	"fmt"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ShoppingListRepository interface {
	// Aggregate sums the ingredient lines of every recipe in the user's cart,
	// one row per ingredient, ordered by name then unit.
	Aggregate(ctx context.Context, userID int64) ([]models.ShoppingListItem, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) Aggregate(ctx context.Context, userID int64) ([]models.ShoppingListItem, error) {
	var items []models.ShoppingListItem
	err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.id AS ingredient_id, i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total_amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Joins("JOIN shopping_cart_items AS sc ON sc.recipe_id = ri.recipe_id").
		Where("sc.user_id = ?", userID).
		Group("i.id, i.name, i.measurement_unit").
		Order("i.name ASC, i.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}
