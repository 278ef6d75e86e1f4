package repository

import (
	"context"
	"testing"

	"foodgram/internal/microservices/http-api/models"
	"foodgram/internal/microservices/http-api/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "a@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	found, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, IsNotFound(err))
}

func TestUserRepository_ListSubscribedAuthors(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	memberships := NewMembershipRepository(db)

	reader := repotest.User(t, db, "reader")
	zed := repotest.User(t, db, "zed")
	amy := repotest.User(t, db, "amy")
	repotest.User(t, db, "nobody")

	for _, author := range []*models.User{zed, amy} {
		_, err := memberships.Add(ctx, models.RelationSubscription, reader.ID, author.ID)
		require.NoError(t, err)
	}

	authors, total, err := NewUserRepository(db).ListSubscribedAuthors(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, authors, 2)
	assert.Equal(t, "amy", authors[0].Username)
	assert.Equal(t, "zed", authors[1].Username)

	second, total, err := NewUserRepository(db).ListSubscribedAuthors(ctx, reader.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, second, 1)
	assert.Equal(t, "zed", second[0].Username)
}

func TestUserRepository_List(t *testing.T) {
	db := repotest.NewDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	for _, name := range []string{"zed", "amy", "mia"} {
		repotest.User(t, db, name)
	}

	users, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].Username)
	assert.Equal(t, "mia", users[1].Username)

	rest, total, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, rest, 1)
	assert.Equal(t, "zed", rest[0].Username)
}
