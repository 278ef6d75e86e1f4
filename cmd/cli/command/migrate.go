package command

import (
	"fmt"

	"foodgram/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database schema commands",
	Long:  `Apply or roll back the embedded SQL migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.closer()

		if err := database.MigrateUp(a.db.SQL, a.log); err != nil {
			return err
		}
		success.Fprintln(cmd.OutOrStdout(), "✓ Schema is up to date")
		return nil
	},
}

var downSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer a.closer()

		if err := database.MigrateDown(a.db.SQL, downSteps, a.log); err != nil {
			return err
		}
		success.Fprintf(cmd.OutOrStdout(), "✓ Rolled back %d migration(s)\n", downSteps)
		return nil
	},
}

var migrateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the embedded migration files",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := database.MigrationFiles()
		if err != nil {
			return fmt.Errorf("failed to read embedded migrations: %w", err)
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateListCmd)
	rootCmd.AddCommand(migrateCmd)
}
