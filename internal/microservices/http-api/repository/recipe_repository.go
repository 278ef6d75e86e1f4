package repository

import (
	"context"
	"fmt"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows List. Zero values disable a filter; the viewer
// filters only apply when ViewerID is set.
type RecipeFilter struct {
	ViewerID      int64
	AuthorID      int64
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
	Offset        int
	Limit         int
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	UpdateFields(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Recipe, error)
	// GetDetailed loads the recipe with author, tags and ingredient lines.
	GetDetailed(ctx context.Context, id int64) (*models.Recipe, error)
	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error
	ReplaceIngredients(ctx context.Context, recipeID int64, lines []models.RecipeIngredient) error
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	// ListByAuthor returns the newest recipes of an author; limit <= 0 means all.
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	// tags and lines are written through ReplaceTags/ReplaceIngredients
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}
	return nil
}

func (r *recipeRepository) UpdateFields(ctx context.Context, recipe *models.Recipe) error {
	result := r.db.WithContext(ctx).
		Model(&models.Recipe{ID: recipe.ID}).
		Select("name", "text", "cooking_time", "image").
		Updates(map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
		})
	if result.Error != nil {
		return fmt.Errorf("update recipe %d: %w", recipe.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update recipe %d: %w", recipe.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete recipe %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete recipe %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *recipeRepository) FindByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("find recipe %d: %w", id, err)
	}
	return &recipe, nil
}

func (r *recipeRepository) GetDetailed(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("clear recipe tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("bind recipe tags: %w", err)
	}
	return nil
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, lines []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("clear recipe ingredients: %w", err)
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(lines))
	for i, l := range lines {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: l.IngredientID, Amount: l.Amount}
	}
	if err := db.Omit(clause.Associations).CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("insert recipe ingredients: %w", err)
	}
	return nil
}

func (r *recipeRepository) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&models.Recipe{})

	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.ViewerID != 0 && f.FavoritedOnly {
		q = q.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", f.ViewerID))
	}
	if f.ViewerID != 0 && f.InCartOnly {
		q = q.Where("recipes.id IN (?)", db.Model(&models.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", f.ViewerID))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	page := r.withDetails(q.Session(&gorm.Session{})).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC").
		Offset(f.Offset)
	if f.Limit > 0 {
		page = page.Limit(f.Limit)
	}

	var recipes []models.Recipe
	if err := page.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, total, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]models.Recipe, error) {
	q := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count recipes by author: %w", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}
