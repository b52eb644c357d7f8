package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/yashkamboj/portfolio/cmd"
	"github.com/yashkamboj/portfolio/internal/repository"
)

// MigrateCmd creates or updates the tables of every entity.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite or MySQL)
and runs GORM automatic migrations for the contacts, projects, blog_posts
and visitors tables.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg := cmd.Cfg

		db, err := repository.Open(cfg.Database.Driver, cfg.Database.Name, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		if err := repository.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
