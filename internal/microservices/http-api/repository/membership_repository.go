package repository

import (
	"context"
	"fmt"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository stores the user-to-target relations of every
// models.RelationKind. Each kind lives in its own table.
type MembershipRepository interface {
	Add(ctx context.Context, kind models.RelationKind, userID, targetID int64) (*models.Membership, error)
	// Remove returns ErrMembershipNotFound when no row was deleted.
	Remove(ctx context.Context, kind models.RelationKind, userID, targetID int64) error
	Exists(ctx context.Context, kind models.RelationKind, userID, targetID int64) (bool, error)
	Count(ctx context.Context, kind models.RelationKind, userID int64) (int64, error)
	// Targets reports which of targetIDs userID holds a relation with.
	Targets(ctx context.Context, kind models.RelationKind, userID int64, targetIDs []int64) (map[int64]bool, error)
}

type relationTable struct {
	model        func() any
	targetColumn string
	newRow       func(userID, targetID int64) membershipRow
}

type membershipRow interface {
	Membership() models.Membership
}

var relationTables = map[models.RelationKind]relationTable{
	models.RelationFavorite: {
		model:        func() any { return &models.Favorite{} },
		targetColumn: "recipe_id",
		newRow: func(userID, targetID int64) membershipRow {
			return &models.Favorite{UserID: userID, RecipeID: targetID}
		},
	},
	models.RelationShoppingCart: {
		model:        func() any { return &models.ShoppingCartItem{} },
		targetColumn: "recipe_id",
		newRow: func(userID, targetID int64) membershipRow {
			return &models.ShoppingCartItem{UserID: userID, RecipeID: targetID}
		},
	},
	models.RelationSubscription: {
		model:        func() any { return &models.Subscription{} },
		targetColumn: "author_id",
		newRow: func(userID, targetID int64) membershipRow {
			return &models.Subscription{UserID: userID, AuthorID: targetID}
		},
	},
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func tableFor(kind models.RelationKind) (relationTable, error) {
	t, ok := relationTables[kind]
	if !ok {
		return relationTable{}, fmt.Errorf("unknown relation kind %q", kind)
	}
	return t, nil
}

func (r *membershipRepository) Add(ctx context.Context, kind models.RelationKind, userID, targetID int64) (*models.Membership, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	row := t.newRow(userID, targetID)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	m := row.Membership()
	return &m, nil
}

func (r *membershipRepository) Remove(ctx context.Context, kind models.RelationKind, userID, targetID int64) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND "+t.targetColumn+" = ?", userID, targetID).
		Delete(t.model())
	if result.Error != nil {
		return fmt.Errorf("remove %s: %w", kind, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, kind models.RelationKind, userID, targetID int64) (bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(t.model()).
		Where("user_id = ? AND "+t.targetColumn+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", kind, err)
	}
	return count > 0, nil
}

func (r *membershipRepository) Count(ctx context.Context, kind models.RelationKind, userID int64) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(t.model()).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return count, nil
}

func (r *membershipRepository) Targets(ctx context.Context, kind models.RelationKind, userID int64, targetIDs []int64) (map[int64]bool, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	found := make(map[int64]bool, len(targetIDs))
	if userID == 0 || len(targetIDs) == 0 {
		return found, nil
	}
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(t.model()).
		Where("user_id = ? AND "+t.targetColumn+" IN ?", userID, targetIDs).
		Pluck(t.targetColumn, &ids).Error; err != nil {
		return nil, fmt.Errorf("lookup %s: %w", kind, err)
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}
