package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"foodgram/internal/microservices/http-api/handler"
	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

const (
	testToken    = "good-token"
	testUserID   = int64(1)
	testUsername = "chef"
)

// --- MOCK SERVICES ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, viewerID, userID int64) (*service.UserView, error) {
	args := m.Called(ctx, viewerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserView), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, viewerID int64, page, limit int) (*service.UserPage, error) {
	args := m.Called(ctx, viewerID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID int64, in service.RecipeInput) (*service.RecipeView, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actorID, recipeID int64, in service.RecipeInput) (*service.RecipeView, error) {
	args := m.Called(ctx, actorID, recipeID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID, recipeID int64) error {
	args := m.Called(ctx, actorID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, viewerID, recipeID int64) (*service.RecipeView, error) {
	args := m.Called(ctx, viewerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID int64, q service.RecipeQuery) (*service.RecipePage, error) {
	args := m.Called(ctx, viewerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipePage), args.Error(1)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) Add(ctx context.Context, kind models.RelationKind, userID, targetID int64) (*service.Relation, error) {
	args := m.Called(ctx, kind, userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Relation), args.Error(1)
}

func (m *MockMembershipService) Remove(ctx context.Context, kind models.RelationKind, userID, targetID int64) error {
	args := m.Called(ctx, kind, userID, targetID)
	return args.Error(0)
}

func (m *MockMembershipService) Toggle(ctx context.Context, kind models.RelationKind, userID, targetID int64, dir service.Direction) (*service.Relation, error) {
	args := m.Called(ctx, kind, userID, targetID, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Relation), args.Error(1)
}

type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID int64) ([]models.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShoppingListItem), args.Error(1)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*service.AuthorSubscription, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorSubscription), args.Error(1)
}

func (m *MockSubscriptionService) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockSubscriptionService) List(ctx context.Context, userID int64, page, limit, recipesLimit int) (*service.SubscriptionPage, error) {
	args := m.Called(ctx, userID, page, limit, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubscriptionPage), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogService) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

// --- SETUP ---

type mocks struct {
	auth          *MockAuthService
	users         *MockUserService
	recipes       *MockRecipeService
	memberships   *MockMembershipService
	shoppingList  *MockShoppingListService
	subscriptions *MockSubscriptionService
	catalog       *MockCatalogService
}

func setupRouter() (*gin.Engine, *mocks) {
	gin.SetMode(gin.TestMode)

	m := &mocks{
		auth:          new(MockAuthService),
		users:         new(MockUserService),
		recipes:       new(MockRecipeService),
		memberships:   new(MockMembershipService),
		shoppingList:  new(MockShoppingListService),
		subscriptions: new(MockSubscriptionService),
		catalog:       new(MockCatalogService),
	}
	m.auth.On("ValidateToken", testToken).
		Return(&service.Claims{UserID: testUserID, Username: testUsername, Type: "access"}, nil).Maybe()
	m.auth.On("ValidateToken", mock.Anything).Return(nil, service.ErrInvalidToken).Maybe()

	r := handler.NewRouter(handler.Services{
		Auth:          m.auth,
		Users:         m.users,
		Recipes:       m.recipes,
		Memberships:   m.memberships,
		ShoppingList:  m.shoppingList,
		Subscriptions: m.subscriptions,
		Catalog:       m.catalog,
	}, handler.RouterOptions{RecipesLimit: 3})
	return r, m
}

// do sends a request, with the test token when authed is set.
func do(r *gin.Engine, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doWithHeader(r *gin.Engine, method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
