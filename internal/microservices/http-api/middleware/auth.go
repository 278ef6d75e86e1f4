package middleware

import (
	"net/http"
	"strings"

	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// TokenValidator is the part of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller's identity in the gin context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok, reason := authenticate(c, validator)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": reason})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, ok, reason := authenticate(c, validator)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": reason})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator) (*service.Claims, bool, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false, "missing authorization header"
	}

	// "Bearer <token>"; "Token <token>" is accepted for older clients
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || (scheme != "Bearer" && scheme != "Token") || strings.TrimSpace(token) == "" {
		return nil, false, "invalid authorization header format"
	}

	claims, err := validator.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return nil, false, "invalid token"
	}
	return claims, true, ""
}

func setIdentity(c *gin.Context, claims *service.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
}

// CurrentUserID returns the authenticated caller, or 0 and false for anonymous requests.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id != 0
}
