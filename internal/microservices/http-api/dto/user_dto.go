package dto

import (
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/service"
)

// RegisteredUserResponse is returned by registration; it never carries viewer flags.
type RegisteredUserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewRegisteredUserResponse(u *models.User) RegisteredUserResponse {
	return RegisteredUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func NewUserResponse(u models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func NewUserViewResponse(v *service.UserView) UserResponse {
	return NewUserResponse(v.User, v.IsSubscribed)
}

func NewUserListResponse(p *service.UserPage) PaginatedResponse[UserResponse] {
	items := make([]UserResponse, len(p.Items))
	for i := range p.Items {
		items[i] = NewUserViewResponse(&p.Items[i])
	}
	return NewPaginatedResponse(items, p.Page, p.Limit, p.Total)
}
