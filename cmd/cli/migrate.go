package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kosarica/catalog-service/config"
	"github.com/kosarica/catalog-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply the embedded goose migrations of the document store to the configured database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := config.GetDatabaseURL()
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
		return database.Migrate(dbURL, *logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
