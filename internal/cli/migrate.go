package cli

import (
	"log"

	"github.com/Levi-LMN/Trivia/internal/config"
	"github.com/Levi-LMN/Trivia/internal/database"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies the schema without starting the server.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db := database.Connect(cfg)
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Printf("migrations applied")
			return nil
		},
	}
}
