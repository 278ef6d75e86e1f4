package service

import (
	"context"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
)

// UserView is a user profile as seen by one viewer.
type UserView struct {
	models.User
	IsSubscribed bool
}

type UserService interface {
	// Get loads a profile; viewerID 0 is an anonymous viewer.
	Get(ctx context.Context, viewerID, userID int64) (*UserView, error)
	List(ctx context.Context, viewerID int64, page, limit int) (*UserPage, error)
}

type UserPage struct {
	Items []UserView
	Total int64
	Page  int
	Limit int
}

type userService struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
}

func NewUserService(users repository.UserRepository, memberships repository.MembershipRepository) UserService {
	return &userService{users: users, memberships: memberships}
}

func (s *userService) Get(ctx context.Context, viewerID, userID int64) (*UserView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFoundError("user", userID)
		}
		return nil, storageError("get user", err)
	}

	view := &UserView{User: *user}
	if viewerID != 0 && viewerID != userID {
		view.IsSubscribed, err = s.memberships.Exists(ctx, models.RelationSubscription, viewerID, userID)
		if err != nil {
			return nil, storageError("load subscription flag", err)
		}
	}
	return view, nil
}

func (s *userService) List(ctx context.Context, viewerID int64, page, limit int) (*UserPage, error) {
	page, limit, offset := normalizePage(page, limit)

	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, storageError("list users", err)
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := s.memberships.Targets(ctx, models.RelationSubscription, viewerID, ids)
	if err != nil {
		return nil, storageError("load subscription flags", err)
	}

	items := make([]UserView, len(users))
	for i, u := range users {
		items[i] = UserView{User: u, IsSubscribed: followed[u.ID]}
	}
	return &UserPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}
