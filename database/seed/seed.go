// Package seed imports tag and ingredient reference data from JSON files.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"foodgram/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Result counts what one import did. Rows that already existed are skipped, not updated.
type Result struct {
	Read     int
	Inserted int64
}

func (r Result) Skipped() int64 {
	return int64(r.Read) - r.Inserted
}

// DecodeTags reads a JSON array of {"name", "color", "slug"} objects.
func DecodeTags(r io.Reader) ([]models.Tag, error) {
	var tags []models.Tag
	if err := json.NewDecoder(r).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	for i := range tags {
		t := &tags[i]
		t.ID = 0
		t.Name = strings.TrimSpace(t.Name)
		t.Slug = strings.TrimSpace(t.Slug)
		t.Color = strings.ToUpper(strings.TrimSpace(t.Color))
		if t.Name == "" || t.Slug == "" {
			return nil, fmt.Errorf("tag #%d: name and slug are required", i+1)
		}
		if !colorPattern.MatchString(t.Color) {
			return nil, fmt.Errorf("tag #%d (%s): color %q is not #RRGGBB", i+1, t.Name, t.Color)
		}
	}
	return tags, nil
}

// DecodeIngredients reads a JSON array of {"name", "measurement_unit"} objects.
func DecodeIngredients(r io.Reader) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := json.NewDecoder(r).Decode(&ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	for i := range ingredients {
		in := &ingredients[i]
		in.ID = 0
		in.Name = strings.TrimSpace(in.Name)
		in.MeasurementUnit = strings.TrimSpace(in.MeasurementUnit)
		if in.Name == "" || in.MeasurementUnit == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
	}
	return ingredients, nil
}

// ImportTags inserts tags in one transaction, leaving existing rows untouched.
func ImportTags(ctx context.Context, db *gorm.DB, tags []models.Tag) (Result, error) {
	return insertIgnoringConflicts(ctx, db, tags)
}

// ImportIngredients inserts ingredients in one transaction, leaving existing rows untouched.
func ImportIngredients(ctx context.Context, db *gorm.DB, ingredients []models.Ingredient) (Result, error) {
	return insertIgnoringConflicts(ctx, db, ingredients)
}

func insertIgnoringConflicts[T any](ctx context.Context, db *gorm.DB, rows []T) (Result, error) {
	res := Result{Read: len(rows)}
	if len(rows) == 0 {
		return res, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(rows); start += batchSize {
			end := min(start+batchSize, len(rows))
			batch := rows[start:end]
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch)
			if result.Error != nil {
				return fmt.Errorf("insert rows %d-%d: %w", start+1, end, result.Error)
			}
			res.Inserted += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return Result{Read: len(rows)}, err
	}
	return res, nil
}
