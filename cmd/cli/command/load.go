package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"foodgram/database/seed"
	"foodgram/internal/microservices/http-api/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// cacheInvalidator drops cached reference data after an import.
type cacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags [file.json]",
	Short: "Import tags from a JSON file",
	Long: `Import tags from a JSON array of {"name", "color", "slug"} objects.
Tags that already exist are skipped; the whole file is imported in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], func(ctx context.Context, db *gorm.DB, r io.Reader) (seed.Result, error) {
			tags, err := seed.DecodeTags(r)
			if err != nil {
				return seed.Result{}, err
			}
			return seed.ImportTags(ctx, db, tags)
		})
	},
}

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients [file.json]",
	Short: "Import ingredients from a JSON file",
	Long: `Import ingredients from a JSON array of {"name", "measurement_unit"} objects.
Ingredients that already exist are skipped; the whole file is imported in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0], func(ctx context.Context, db *gorm.DB, r io.Reader) (seed.Result, error) {
			ingredients, err := seed.DecodeIngredients(r)
			if err != nil {
				return seed.Result{}, err
			}
			return seed.ImportIngredients(ctx, db, ingredients)
		})
	},
}

type importFunc func(ctx context.Context, db *gorm.DB, r io.Reader) (seed.Result, error)

func runImport(cmd *cobra.Command, path string, fn importFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	a, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer a.closer()

	var inv cacheInvalidator
	if a.cache != nil {
		inv = a.cache
	}
	return importFile(cmd.Context(), a.db.Gorm, inv, f, cmd.OutOrStdout(), fn)
}

// importFile runs one import and reports the counts. The cache is only
// invalidated when something was inserted.
func importFile(ctx context.Context, db *gorm.DB, inv cacheInvalidator, r io.Reader, out io.Writer, fn importFunc) error {
	res, err := fn(ctx, db, r)
	if err != nil {
		return err
	}

	success.Fprintf(out, "✓ Imported %d of %d rows\n", res.Inserted, res.Read)
	if skipped := res.Skipped(); skipped > 0 {
		notice.Fprintf(out, "  %d already present, skipped\n", skipped)
	}

	if inv != nil && res.Inserted > 0 {
		if err := inv.Invalidate(ctx); err != nil {
			notice.Fprintf(out, "  reference cache not cleared: %v\n", err)
		}
	}
	return nil
}

// countReference is used by status to show what is loaded.
func countReference(ctx context.Context, db *gorm.DB) (tags, ingredients int64, err error) {
	if err = db.WithContext(ctx).Model(&models.Tag{}).Count(&tags).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count tags: %w", err)
	}
	if err = db.WithContext(ctx).Model(&models.Ingredient{}).Count(&ingredients).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return tags, ingredients, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how much reference data is loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.closer()

		tags, ingredients, err := countReference(cmd.Context(), a.db.Gorm)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tags: %d\nIngredients: %d\n", tags, ingredients)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadTagsCmd)
	rootCmd.AddCommand(loadIngredientsCmd)
	rootCmd.AddCommand(statusCmd)
}
