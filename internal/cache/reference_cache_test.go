package cache

import (
	"context"
	"testing"
	"time"

	"foodgram/internal/microservices/http-api/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ReferenceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReferenceCache(client, time.Minute, nil), mr
}

func TestReferenceCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Tags(ctx)
	assert.False(t, ok)

	tags := []models.Tag{{ID: 1, Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}}
	c.SetTags(ctx, tags)

	got, ok := c.Tags(ctx)
	require.True(t, ok)
	assert.Equal(t, tags, got)
	assert.Equal(t, time.Minute, mr.TTL(tagsKey))

	ingredients := []models.Ingredient{{ID: 2, Name: "salt", MeasurementUnit: "g"}}
	c.SetIngredients(ctx, ingredients)
	gotIngredients, ok := c.Ingredients(ctx)
	require.True(t, ok)
	assert.Equal(t, ingredients, gotIngredients)

	require.NoError(t, c.Invalidate(ctx))
	_, ok = c.Tags(ctx)
	assert.False(t, ok)
	_, ok = c.Ingredients(ctx)
	assert.False(t, ok)
}

func TestReferenceCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetTags(ctx, []models.Tag{{ID: 1}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Tags(ctx)
	assert.False(t, ok)
}

func TestReferenceCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(tagsKey, "{not json"))

	_, ok := c.Tags(context.Background())
	assert.False(t, ok)
}

func TestReferenceCache_NilIsNoop(t *testing.T) {
	var c *ReferenceCache
	ctx := context.Background()

	c.SetTags(ctx, []models.Tag{{ID: 1}})
	_, ok := c.Tags(ctx)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "not a url", "")
	assert.Error(t, err)
}
