package models

import "gorm.io/gorm"

// All lists every table-backed model in dependency order.
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCartItem{},
		&Subscription{},
	}
}

// AutoMigrate builds the schema from the models. Production databases are
// migrated from the embedded SQL files instead; this serves throwaway
// databases such as the SQLite ones used in tests.
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Recipe{}, "Tags", &RecipeTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(All()...)
}
