package service

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

type Direction int

const (
	DirectionAdd Direction = iota + 1
	DirectionRemove
)

// Relation is the result of an add: the stored row plus the resolved target.
// Exactly one of Recipe and Author is set, depending on the kind.
type Relation struct {
	models.Membership
	Recipe *models.Recipe
	Author *models.User
}

// MembershipService adds and removes favorites, shopping cart entries and
// subscriptions through one state machine.
type MembershipService interface {
	Add(ctx context.Context, kind models.RelationKind, userID, targetID int64) (*Relation, error)
	Remove(ctx context.Context, kind models.RelationKind, userID, targetID int64) error
	// Toggle dispatches on dir. The relation is nil after a remove.
	Toggle(ctx context.Context, kind models.RelationKind, userID, targetID int64, dir Direction) (*Relation, error)
}

type relationMessages struct {
	duplicate string
	missing   string
}

var membershipMessages = map[models.RelationKind]relationMessages{
	models.RelationFavorite: {
		duplicate: "recipe is already in favorites",
		missing:   "recipe is not in favorites",
	},
	models.RelationShoppingCart: {
		duplicate: "recipe is already in the shopping cart",
		missing:   "recipe is not in the shopping cart",
	},
	models.RelationSubscription: {
		duplicate: "already subscribed to this user",
		missing:   "not subscribed to this user",
	},
}

const msgSelfSubscription = "cannot subscribe to yourself"

type membershipService struct {
	store *repository.Store
}

func NewMembershipService(store *repository.Store) MembershipService {
	return &membershipService{store: store}
}

func (s *membershipService) Toggle(ctx context.Context, kind models.RelationKind, userID, targetID int64, dir Direction) (*Relation, error) {
	switch dir {
	case DirectionAdd:
		return s.Add(ctx, kind, userID, targetID)
	case DirectionRemove:
		return nil, s.Remove(ctx, kind, userID, targetID)
	default:
		return nil, fmt.Errorf("unknown direction %d", dir)
	}
}

func (s *membershipService) Add(ctx context.Context, kind models.RelationKind, userID, targetID int64) (*Relation, error) {
	msgs, ok := membershipMessages[kind]
	if !ok {
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}

	var rel *Relation
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		if rel, err = resolveTarget(ctx, tx, kind, targetID); err != nil {
			return err
		}
		if kind.TargetsUser() && userID == targetID {
			return conflictError(msgSelfSubscription)
		}

		exists, err := tx.Memberships.Exists(ctx, kind, userID, targetID)
		if err != nil {
			return storageError("check relation", err)
		}
		if exists {
			return conflictError(msgs.duplicate)
		}

		m, err := tx.Memberships.Add(ctx, kind, userID, targetID)
		if err != nil {
			if repository.IsUniqueViolation(err) {
				return &Error{Kind: KindConflict, Message: msgs.duplicate, Err: err}
			}
			return storageError("add relation", err)
		}
		rel.Membership = *m
		return nil
	})
	if err != nil {
		return nil, asServiceError("add relation", err)
	}
	return rel, nil
}

func (s *membershipService) Remove(ctx context.Context, kind models.RelationKind, userID, targetID int64) error {
	msgs, ok := membershipMessages[kind]
	if !ok {
		return fmt.Errorf("unknown relation kind %q", kind)
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := resolveTarget(ctx, tx, kind, targetID); err != nil {
			return err
		}

		exists, err := tx.Memberships.Exists(ctx, kind, userID, targetID)
		if err != nil {
			return storageError("check relation", err)
		}
		if !exists {
			return conflictError(msgs.missing)
		}

		if err := tx.Memberships.Remove(ctx, kind, userID, targetID); err != nil {
			if errors.Is(err, repository.ErrMembershipNotFound) {
				return &Error{Kind: KindConflict, Message: msgs.missing, Err: err}
			}
			return storageError("remove relation", err)
		}
		return nil
	})
	return asServiceError("remove relation", err)
}

// resolveTarget loads the recipe or user a relation points at.
func resolveTarget(ctx context.Context, tx *repository.Store, kind models.RelationKind, targetID int64) (*Relation, error) {
	rel := &Relation{}
	if kind.TargetsUser() {
		author, err := tx.Users.FindByID(ctx, targetID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, notFoundError("user", targetID)
			}
			return nil, storageError("load user", err)
		}
		rel.Author = author
		return rel, nil
	}

	recipe, err := tx.Recipes.FindByID(ctx, targetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("recipe", targetID)
		}
		return nil, storageError("load recipe", err)
	}
	rel.Recipe = recipe
	return rel, nil
}
