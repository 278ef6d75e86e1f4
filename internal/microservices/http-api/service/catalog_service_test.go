package service

import (
	"context"
	"testing"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository"
	"foodgram/internal/microservices/http-api/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReferenceCache struct {
	mock.Mock
}

func (m *MockReferenceCache) Tags(ctx context.Context) ([]models.Tag, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.Tag), args.Bool(1)
}

func (m *MockReferenceCache) SetTags(ctx context.Context, tags []models.Tag) {
	m.Called(ctx, tags)
}

func (m *MockReferenceCache) Ingredients(ctx context.Context) ([]models.Ingredient, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.Ingredient), args.Bool(1)
}

func (m *MockReferenceCache) SetIngredients(ctx context.Context, ingredients []models.Ingredient) {
	m.Called(ctx, ingredients)
}

func TestCatalogService_TagsFillCacheOnMiss(t *testing.T) {
	db := repotest.NewDB(t)
	store := repository.NewStore(db)
	repotest.Tag(t, db, "lunch", "#00FF00")
	repotest.Tag(t, db, "brunch", "#0000FF")

	cache := new(MockReferenceCache)
	cache.On("Tags", mock.Anything).Return(nil, false).Once()
	cache.On("SetTags", mock.Anything, mock.MatchedBy(func(tags []models.Tag) bool { return len(tags) == 2 })).Once()

	svc := NewCatalogService(store.Tags, store.Ingredients, cache)
	tags, err := svc.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "brunch", tags[0].Name)
	cache.AssertExpectations(t)
}

func TestCatalogService_IngredientsFromCache(t *testing.T) {
	store := repository.NewStore(repotest.NewDB(t))
	cached := []models.Ingredient{{ID: 1, Name: "salt", MeasurementUnit: "g"}}

	cache := new(MockReferenceCache)
	cache.On("Ingredients", mock.Anything).Return(cached, true).Once()

	ingredients, err := NewCatalogService(store.Tags, store.Ingredients, cache).ListIngredients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, ingredients)
	cache.AssertNotCalled(t, "SetIngredients", mock.Anything, mock.Anything)
}

func TestCatalogService_NoCache(t *testing.T) {
	db := repotest.NewDB(t)
	store := repository.NewStore(db)
	salt := repotest.Ingredient(t, db, "salt", "g")

	svc := NewCatalogService(store.Tags, store.Ingredients, nil)
	ingredients, err := svc.ListIngredients(context.Background())
	require.NoError(t, err)
	assert.Len(t, ingredients, 1)

	got, err := svc.GetIngredient(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "salt", got.Name)

	_, err = svc.GetIngredient(context.Background(), 999)
	assert.True(t, IsKind(err, KindNotFound))
	_, err = svc.GetTag(context.Background(), 999)
	assert.True(t, IsKind(err, KindNotFound))
}
