package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yashkamboj/portfolio/cmd"
	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/logger"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/services"
	"github.com/yashkamboj/portfolio/internal/validation"
)

var (
	titleFlag       string
	descriptionFlag string
	tagsFlag        []string
	techFlag        []string
	githubFlag      string
	liveFlag        string
	featuredFlag    bool
	statusFlag      string
	orderFlag       int
)

// CreateProjectCmd creates a project through the same validation as the API.
var CreateProjectCmd = &cobra.Command{
	Use:   "create-project",
	Short: "Creates a portfolio project.",
	Long: `This command creates a project and prints its id.

Example:
  portfolio create-project --title="Portfolio" --description="My site" --tags=go,web --status=published`,
	Run: func(c *cobra.Command, _ []string) {
		cfg := cmd.Cfg
		zl := logger.New(cfg.App.Env)
		defer zl.Sync()

		db, err := repository.Open(cfg.Database.Driver, cfg.Database.Name, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		projectService := services.NewProjectService(repository.NewProjectRepository(db), validation.New(), zl)

		in := services.ProjectInput{
			Title:        &titleFlag,
			Description:  &descriptionFlag,
			Tags:         tagsFlag,
			Technologies: techFlag,
			Status:       &statusFlag,
			Order:        &orderFlag,
			Featured:     &featuredFlag,
		}
		if c.Flags().Changed("github") {
			in.GithubURL = &githubFlag
		}
		if c.Flags().Changed("live") {
			in.LiveURL = &liveFlag
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		project, err := projectService.Create(ctx, in)
		if err != nil {
			if ve, ok := customerrors.IsValidation(err); ok {
				for _, fe := range ve.Errors {
					fmt.Printf("Error: %s: %s\n", fe.Field, fe.Message)
				}
				os.Exit(1)
			}
			log.Fatalf("Failed to create project: %v", err)
		}

		fmt.Printf("Project created successfully:\n")
		fmt.Printf("ID: %s\n", project.ID)
		fmt.Printf("Status: %s\n", project.Status)
	},
}

func init() {
	CreateProjectCmd.Flags().StringVar(&titleFlag, "title", "", "Project title")
	CreateProjectCmd.Flags().StringVar(&descriptionFlag, "description", "", "Short description")
	CreateProjectCmd.Flags().StringSliceVar(&tagsFlag, "tags", nil, "Comma-separated tags")
	CreateProjectCmd.Flags().StringSliceVar(&techFlag, "tech", nil, "Comma-separated technologies")
	CreateProjectCmd.Flags().StringVar(&githubFlag, "github", "", "Repository URL")
	CreateProjectCmd.Flags().StringVar(&liveFlag, "live", "", "Live site URL")
	CreateProjectCmd.Flags().BoolVar(&featuredFlag, "featured", false, "Feature the project")
	CreateProjectCmd.Flags().StringVar(&statusFlag, "status", "draft", "draft, published or archived")
	CreateProjectCmd.Flags().IntVar(&orderFlag, "order", 0, "Sort key, lowest first")

	CreateProjectCmd.MarkFlagRequired("title")
	CreateProjectCmd.MarkFlagRequired("description")

	cmd.RootCmd.AddCommand(CreateProjectCmd)
}
