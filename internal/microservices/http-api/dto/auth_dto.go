package dto

// Data Transfer Objects for registration and token login

// RegisterRequest: payload for user registration.
// Field rules are enforced by the auth service so every problem is reported per field.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest: payload for token login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse: response payload after a successful login
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
	TokenType string `json:"token_type"`
}
