// Package repotest provides throwaway SQLite databases with the foodgram
// schema for repository and service tests.
package repotest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"foodgram/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory database with every model migrated.
// The single connection keeps the in-memory database alive for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:foodgram_test_%d?mode=memory&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// User inserts a user with a derived email.
func User(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Tag inserts a tag; the slug is the name.
func Tag(t testing.TB, db *gorm.DB, name, color string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func Ingredient(t testing.TB, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	in := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(in).Error)
	return in
}

// Line is an (ingredient, amount) pair for Recipe.
type Line struct {
	IngredientID int64
	Amount       int
}

// Recipe inserts a recipe with its tags and lines directly, bypassing validation.
func Recipe(t testing.TB, db *gorm.DB, author *models.User, name string, tagIDs []int64, lines ...Line) *models.Recipe {
	t.Helper()
	r := &models.Recipe{AuthorID: author.ID, Name: name, Text: name + " text", CookingTime: 10}
	require.NoError(t, db.Omit("Author", "Tags", "Ingredients").Create(r).Error)
	for _, id := range tagIDs {
		require.NoError(t, db.Create(&models.RecipeTag{RecipeID: r.ID, TagID: id}).Error)
	}
	for _, l := range lines {
		require.NoError(t, db.Create(&models.RecipeIngredient{RecipeID: r.ID, IngredientID: l.IngredientID, Amount: l.Amount}).Error)
	}
	return r
}
