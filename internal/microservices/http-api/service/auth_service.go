package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/middleware/auth"
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "foodgram"
	tokenTypeAccess = "access"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Claims carried by an access token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, user *models.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case in.Username == "":
		return nil, validationError("username", msgRequired)
	case !usernamePattern.MatchString(in.Username):
		return nil, validationError("username", "letters, digits and @/./+/-/_ only")
	case strings.EqualFold(in.Username, "me"):
		return nil, validationError("username", "this username is reserved")
	case in.Email == "":
		return nil, validationError("email", msgRequired)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, validationError("email", "enter a valid email address")
	}
	if err := auth.CheckPassword(in.Password); err != nil {
		return nil, validationError("password", err.Error())
	}

	if _, err := s.userRepo.FindByUsername(ctx, in.Username); err == nil {
		return nil, validationError("username", "a user with that username already exists")
	} else if !repository.IsNotFound(err) {
		return nil, storageError("check username", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, validationError("email", "a user with that email already exists")
	} else if !repository.IsNotFound(err) {
		return nil, storageError("check email", err)
	}

	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, storageError("hash password", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &Error{Kind: KindValidation, Field: "username", Message: "a user with that username or email already exists", Err: err}
		}
		return nil, storageError("create user", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !repository.IsNotFound(err) {
			return "", nil, storageError("find user", err)
		}
		// dummy compare keeps the timing of unknown and known emails alike
		_ = auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, storageError("sign token", err)
	}
	return token, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &Error{Kind: KindUnauthorized, Message: "token has expired", Err: err}
		}
		return nil, &Error{Kind: KindUnauthorized, Message: "invalid token", Err: err}
	}
	if !token.Valid || claims.Type != tokenTypeAccess || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
