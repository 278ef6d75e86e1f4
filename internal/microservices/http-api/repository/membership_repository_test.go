package repository

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipRepository_AddRemove(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	repo := NewMembershipRepository(db)

	alice := repotest.User(t, db, "alice")
	bob := repotest.User(t, db, "bob")
	recipe := repotest.Recipe(t, db, bob, "soup", nil)

	for _, tc := range []struct {
		kind   models.RelationKind
		target int64
	}{
		{models.RelationFavorite, recipe.ID},
		{models.RelationShoppingCart, recipe.ID},
		{models.RelationSubscription, bob.ID},
	} {
		t.Run(string(tc.kind), func(t *testing.T) {
			m, err := repo.Add(ctx, tc.kind, alice.ID, tc.target)
			require.NoError(t, err)
			assert.NotZero(t, m.ID)
			assert.Equal(t, tc.kind, m.Kind)
			assert.Equal(t, tc.target, m.TargetID)

			exists, err := repo.Exists(ctx, tc.kind, alice.ID, tc.target)
			require.NoError(t, err)
			assert.True(t, exists)

			_, err = repo.Add(ctx, tc.kind, alice.ID, tc.target)
			require.Error(t, err)
			assert.True(t, IsUniqueViolation(err), "got %v", err)

			count, err := repo.Count(ctx, tc.kind, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			require.NoError(t, repo.Remove(ctx, tc.kind, alice.ID, tc.target))
			err = repo.Remove(ctx, tc.kind, alice.ID, tc.target)
			assert.True(t, errors.Is(err, ErrMembershipNotFound))
		})
	}
}

func TestMembershipRepository_SelfSubscriptionRejectedByStore(t *testing.T) {
	db := repotest.NewDB(t)
	alice := repotest.User(t, db, "alice")

	_, err := NewMembershipRepository(db).Add(context.Background(), models.RelationSubscription, alice.ID, alice.ID)
	require.Error(t, err)
}

func TestMembershipRepository_Targets(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	repo := NewMembershipRepository(db)

	alice := repotest.User(t, db, "alice")
	r1 := repotest.Recipe(t, db, alice, "one", nil)
	r2 := repotest.Recipe(t, db, alice, "two", nil)
	r3 := repotest.Recipe(t, db, alice, "three", nil)

	_, err := repo.Add(ctx, models.RelationFavorite, alice.ID, r1.ID)
	require.NoError(t, err)
	_, err = repo.Add(ctx, models.RelationFavorite, alice.ID, r3.ID)
	require.NoError(t, err)

	found, err := repo.Targets(ctx, models.RelationFavorite, alice.ID, []int64{r1.ID, r2.ID, r3.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{r1.ID: true, r3.ID: true}, found)

	anon, err := repo.Targets(ctx, models.RelationFavorite, 0, []int64{r1.ID})
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestMembershipRepository_UnknownKind(t *testing.T) {
	db := repotest.NewDB(t)
	_, err := NewMembershipRepository(db).Add(context.Background(), models.RelationKind("likes"), 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown relation kind")
}
