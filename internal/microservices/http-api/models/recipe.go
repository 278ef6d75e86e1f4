package models

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time >= 1"`
	Image       string    `json:"image" gorm:"not null;default:''"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// associations
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeTag is the join row behind Recipe.Tags, written explicitly on create and update.
type RecipeTag struct {
	RecipeID int64 `json:"recipe_id" gorm:"primaryKey"`
	TagID    int64 `json:"tag_id" gorm:"primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// RecipeIngredient is one ingredient line of a recipe.
type RecipeIngredient struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredients_pair"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredients_pair"`
	Amount       int   `json:"amount" gorm:"not null;check:amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE;"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// ShoppingListItem is one consolidated line of a user's shopping list.
type ShoppingListItem struct {
	IngredientID    int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"amount"`
}
