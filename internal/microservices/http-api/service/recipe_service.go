package service

import (
	"context"
	"slices"
	"strings"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100

	msgUniqueIngredients = "ingredients must be unique"
)

type IngredientLine struct {
	IngredientID int64
	Amount       int
}

// RecipeInput is the full set of client-supplied recipe fields. The author
// is always the acting user and never part of the input.
type RecipeInput struct {
	Name        string
	Text        string
	CookingTime int
	Image       string
	TagIDs      []int64
	Ingredients []IngredientLine
}

// RecipeView is a recipe as seen by one viewer.
type RecipeView struct {
	models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	// AuthorSubscribed is whether the viewer follows the recipe's author.
	AuthorSubscribed bool
}

type RecipeQuery struct {
	AuthorID      int64
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
	Page          int
	Limit         int
}

type RecipePage struct {
	Items []RecipeView
	Total int64
	Page  int
	Limit int
}

type RecipeService interface {
	Create(ctx context.Context, authorID int64, in RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, actorID, recipeID int64, in RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, actorID, recipeID int64) error
	// Get and List accept viewerID 0 for anonymous viewers.
	Get(ctx context.Context, viewerID, recipeID int64) (*RecipeView, error)
	List(ctx context.Context, viewerID int64, q RecipeQuery) (*RecipePage, error)
}

type recipeService struct {
	store *repository.Store
}

func NewRecipeService(store *repository.Store) RecipeService {
	return &recipeService{store: store}
}

func (s *recipeService) Create(ctx context.Context, authorID int64, in RecipeInput) (*RecipeView, error) {
	var created *models.Recipe
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		tagIDs, err := validateRecipe(ctx, tx, in)
		if err != nil {
			return err
		}

		recipe := &models.Recipe{
			AuthorID:    authorID,
			Name:        strings.TrimSpace(in.Name),
			Text:        in.Text,
			CookingTime: in.CookingTime,
			Image:       in.Image,
		}
		if err := tx.Recipes.Create(ctx, recipe); err != nil {
			return storageError("create recipe", err)
		}
		if err := writeComposition(ctx, tx, recipe.ID, tagIDs, in.Ingredients); err != nil {
			return err
		}

		created, err = tx.Recipes.GetDetailed(ctx, recipe.ID)
		if err != nil {
			return storageError("reload recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("create recipe", err)
	}
	return &RecipeView{Recipe: *created}, nil
}

func (s *recipeService) Update(ctx context.Context, actorID, recipeID int64, in RecipeInput) (*RecipeView, error) {
	var view *RecipeView
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Recipes.FindByID(ctx, recipeID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFoundError("recipe", recipeID)
			}
			return storageError("load recipe", err)
		}
		if existing.AuthorID != actorID {
			return forbiddenError("only the author can change this recipe")
		}

		tagIDs, err := validateRecipe(ctx, tx, in)
		if err != nil {
			return err
		}

		existing.Name = strings.TrimSpace(in.Name)
		existing.Text = in.Text
		existing.CookingTime = in.CookingTime
		if in.Image != "" {
			existing.Image = in.Image
		}
		if err := tx.Recipes.UpdateFields(ctx, existing); err != nil {
			return storageError("update recipe", err)
		}
		if err := writeComposition(ctx, tx, recipeID, tagIDs, in.Ingredients); err != nil {
			return err
		}

		updated, err := tx.Recipes.GetDetailed(ctx, recipeID)
		if err != nil {
			return storageError("reload recipe", err)
		}
		view, err = decorate(ctx, tx, actorID, updated)
		return err
	})
	if err != nil {
		return nil, asServiceError("update recipe", err)
	}
	return view, nil
}

func (s *recipeService) Delete(ctx context.Context, actorID, recipeID int64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Recipes.FindByID(ctx, recipeID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFoundError("recipe", recipeID)
			}
			return storageError("load recipe", err)
		}
		if existing.AuthorID != actorID {
			return forbiddenError("only the author can delete this recipe")
		}
		if err := tx.Recipes.Delete(ctx, recipeID); err != nil {
			return storageError("delete recipe", err)
		}
		return nil
	})
	return asServiceError("delete recipe", err)
}

func (s *recipeService) Get(ctx context.Context, viewerID, recipeID int64) (*RecipeView, error) {
	recipe, err := s.store.Recipes.GetDetailed(ctx, recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("recipe", recipeID)
		}
		return nil, storageError("get recipe", err)
	}
	return decorate(ctx, s.store, viewerID, recipe)
}

func (s *recipeService) List(ctx context.Context, viewerID int64, q RecipeQuery) (*RecipePage, error) {
	page, limit, offset := normalizePage(q.Page, q.Limit)

	recipes, total, err := s.store.Recipes.List(ctx, repository.RecipeFilter{
		ViewerID:      viewerID,
		AuthorID:      q.AuthorID,
		TagSlugs:      q.TagSlugs,
		FavoritedOnly: q.FavoritedOnly,
		InCartOnly:    q.InCartOnly,
		Offset:        offset,
		Limit:         limit,
	})
	if err != nil {
		return nil, storageError("list recipes", err)
	}

	ids := make([]int64, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}
	favorited, err := s.store.Memberships.Targets(ctx, models.RelationFavorite, viewerID, ids)
	if err != nil {
		return nil, storageError("list recipes", err)
	}
	inCart, err := s.store.Memberships.Targets(ctx, models.RelationShoppingCart, viewerID, ids)
	if err != nil {
		return nil, storageError("list recipes", err)
	}
	followed, err := s.store.Memberships.Targets(ctx, models.RelationSubscription, viewerID, authorIDs(recipes))
	if err != nil {
		return nil, storageError("list recipes", err)
	}

	items := make([]RecipeView, len(recipes))
	for i, r := range recipes {
		items[i] = RecipeView{
			Recipe:           r,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: followed[r.AuthorID],
		}
	}
	return &RecipePage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// validateRecipe checks the input in a fixed order and returns the
// de-duplicated tag ids. It only reads, so a failure leaves nothing behind.
func validateRecipe(ctx context.Context, store *repository.Store, in RecipeInput) ([]int64, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, validationError("name", msgRequired)
	case strings.TrimSpace(in.Text) == "":
		return nil, validationError("text", msgRequired)
	case in.CookingTime == 0:
		return nil, validationError("cooking_time", msgRequired)
	case in.CookingTime < 0:
		return nil, validationError("cooking_time", "ensure this value is greater than or equal to 1")
	}

	if len(in.TagIDs) == 0 {
		return nil, validationError("tags", "at least one tag is required")
	}
	tagIDs := uniqueIDs(in.TagIDs)
	tags, err := store.Tags.FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, storageError("resolve tags", err)
	}
	if missing, ok := firstMissing(tagIDs, tags, func(t models.Tag) int64 { return t.ID }); ok {
		return nil, notFoundError("tag", missing)
	}

	if len(in.Ingredients) == 0 {
		return nil, validationError("ingredients", "at least one ingredient is required")
	}
	ingredientIDs := make([]int64, 0, len(in.Ingredients))
	seen := make(map[int64]struct{}, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if line.Amount < 1 {
			return nil, validationError("ingredients", "amount must be at least 1")
		}
		if _, dup := seen[line.IngredientID]; dup {
			return nil, validationError("ingredients", msgUniqueIngredients)
		}
		seen[line.IngredientID] = struct{}{}
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}

	ingredients, err := store.Ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, storageError("resolve ingredients", err)
	}
	if missing, ok := firstMissing(ingredientIDs, ingredients, func(i models.Ingredient) int64 { return i.ID }); ok {
		return nil, notFoundError("ingredient", missing)
	}

	return tagIDs, nil
}

// writeComposition replaces the tag set and the ingredient lines of a recipe.
func writeComposition(ctx context.Context, tx *repository.Store, recipeID int64, tagIDs []int64, lines []IngredientLine) error {
	if err := tx.Recipes.ReplaceTags(ctx, recipeID, tagIDs); err != nil {
		return storageError("bind tags", err)
	}

	rows := make([]models.RecipeIngredient, len(lines))
	for i, l := range lines {
		rows[i] = models.RecipeIngredient{IngredientID: l.IngredientID, Amount: l.Amount}
	}
	if err := tx.Recipes.ReplaceIngredients(ctx, recipeID, rows); err != nil {
		if repository.IsUniqueViolation(err) {
			return &Error{Kind: KindValidation, Field: "ingredients", Message: msgUniqueIngredients, Err: err}
		}
		return storageError("write ingredients", err)
	}
	return nil
}

func decorate(ctx context.Context, store *repository.Store, viewerID int64, recipe *models.Recipe) (*RecipeView, error) {
	view := &RecipeView{Recipe: *recipe}
	if viewerID == 0 {
		return view, nil
	}
	var err error
	if view.IsFavorited, err = store.Memberships.Exists(ctx, models.RelationFavorite, viewerID, recipe.ID); err != nil {
		return nil, storageError("load favorite flag", err)
	}
	if view.IsInShoppingCart, err = store.Memberships.Exists(ctx, models.RelationShoppingCart, viewerID, recipe.ID); err != nil {
		return nil, storageError("load shopping cart flag", err)
	}
	if viewerID != recipe.AuthorID {
		if view.AuthorSubscribed, err = store.Memberships.Exists(ctx, models.RelationSubscription, viewerID, recipe.AuthorID); err != nil {
			return nil, storageError("load subscription flag", err)
		}
	}
	return view, nil
}

func authorIDs(recipes []models.Recipe) []int64 {
	ids := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		if !slices.Contains(ids, r.AuthorID) {
			ids = append(ids, r.AuthorID)
		}
	}
	return ids
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// firstMissing returns the first id, in request order, with no matching row.
func firstMissing[T any](ids []int64, rows []T, idOf func(T) int64) (int64, bool) {
	if len(rows) == len(ids) {
		return 0, false
	}
	found := make(map[int64]bool, len(rows))
	for _, r := range rows {
		found[idOf(r)] = true
	}
	for _, id := range ids {
		if !found[id] {
			return id, true
		}
	}
	return 0, false
}

func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit, (page - 1) * limit
}
