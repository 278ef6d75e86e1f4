package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, so a
// service can run several of them inside a single transaction.
type Store struct {
	db *gorm.DB

	Users        UserRepository
	Tags         TagRepository
	Ingredients  IngredientRepository
	Recipes      RecipeRepository
	Memberships  MembershipRepository
	ShoppingList ShoppingListRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Tags:         NewTagRepository(db),
		Ingredients:  NewIngredientRepository(db),
		Recipes:      NewRecipeRepository(db),
		Memberships:  NewMembershipRepository(db),
		ShoppingList: NewShoppingListRepository(db),
	}
}

// Transaction runs fn against a Store bound to one transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
