package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yashkamboj/portfolio/cmd"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/services"
)

// StatsCmd prints the admin dashboard.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the admin dashboard",
	Long:  `Print entity counts and the most recent contacts and visitors.`,
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

func runStats(_ *cobra.Command, _ []string) {
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

	admin := services.NewAdminService(
		repository.NewContactRepository(db),
		repository.NewVisitorRepository(db),
		repository.NewProjectRepository(db),
		repository.NewBlogRepository(db),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	d, err := admin.Dashboard(ctx)
	if err != nil {
		fmt.Printf("Error retrieving statistics: %v\n", err)
		os.Exit(1)
	}

	o := d.Overview
	fmt.Printf("Contacts: %d (%d pending)\n", o.Contacts.Total, o.Contacts.Pending)
	fmt.Printf("Visitors: %d (%d unique)\n", o.Visitors.Total, o.Visitors.Unique)
	fmt.Printf("Projects: %d (%d published)\n", o.Projects.Total, o.Projects.Published)
	fmt.Printf("Blog posts: %d (%d published)\n", o.Blog.Total, o.Blog.Published)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRECENT CONTACTS\t\t\t")
	for _, c := range d.Recent.Contacts {
		fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\n", c.CreatedAt.Format("2006-01-02 15:04:05"), c.Name, c.Email, c.Subject, c.Status)
	}
	fmt.Fprintln(w, "\nRECENT VISITORS\t\t\t")
	for _, v := range d.Recent.Visitors {
		fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\n", v.CreatedAt.Format("2006-01-02 15:04:05"), v.IPAddress, v.Device, v.Browser, v.Page)
	}
	w.Flush()
}
