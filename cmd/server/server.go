package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashkamboj/portfolio/cmd"
	"github.com/yashkamboj/portfolio/internal/api"
	"github.com/yashkamboj/portfolio/internal/config"
	"github.com/yashkamboj/portfolio/internal/geoip"
	"github.com/yashkamboj/portfolio/internal/logger"
	"github.com/yashkamboj/portfolio/internal/monitor"
	"github.com/yashkamboj/portfolio/internal/notify"
	"github.com/yashkamboj/portfolio/internal/render"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/services"
	"github.com/yashkamboj/portfolio/internal/validation"
	"github.com/yashkamboj/portfolio/internal/workers"
)

// RunServerCmd starts the HTTP API and the background workers.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the portfolio API server and its background processes.",
	Long: `This command connects to the database, runs migrations, starts the
notification workers and the project link monitor, then serves the HTTP API
until it receives SIGINT or SIGTERM.`,
	Run: func(_ *cobra.Command, _ []string) {
		cfg := cmd.Cfg
		log := logger.New(cfg.App.Env)
		defer log.Sync()

		if err := run(cfg, log); err != nil {
			log.Fatal("server stopped with error", zap.Error(err))
		}
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}

// openStore connects and migrates. Any failure leaves the server in degraded
// mode with a nil handle: contact submissions still succeed, everything else
// answers 500.
func openStore(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.Name, cfg.Database.DSN)
	if err != nil {
		log.Warn("database not connected, running without a store", zap.Error(err))
		return nil
	}
	if err := repository.Migrate(db); err != nil {
		log.Warn("database migration failed, running without a store", zap.Error(err))
		return nil
	}
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return db
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := openStore(cfg, log)
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	contactRepo := repository.NewContactRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	visitorRepo := repository.NewVisitorRepository(db)
	log.Info("repositories initialised")

	locator, err := geoip.Open(cfg.GeoIP.DatabasePath)
	if err != nil {
		log.Warn("GeoIP disabled", zap.Error(err))
		locator = nil
	}
	defer locator.Close()

	sender := notify.NewSender(notify.SMTPSettings{
		Host:        cfg.Mail.Host,
		Port:        cfg.Mail.Port,
		Username:    cfg.Mail.Username,
		Password:    cfg.Mail.Password,
		DefaultFrom: cfg.Mail.From,
	}, log)
	queue := workers.NewNotificationQueue(sender, workers.QueueOptions{
		BufferSize:  cfg.Notifications.BufferSize,
		WorkerCount: cfg.Notifications.WorkerCount,
		MaxAttempts: cfg.Notifications.MaxAttempts,
		Backoff:     cfg.Notifications.Backoff,
	}, log)
	queue.Start(context.Background())
	composer := notify.NewComposer(notify.Identity{
		OwnerName:   cfg.Mail.OwnerName,
		SiteURL:     cfg.Mail.SiteURL,
		NoReplyFrom: cfg.Mail.NoReplyFrom,
		ContactTo:   cfg.Mail.ContactTo,
	})

	v := validation.New()
	var geo services.GeoLocator
	if locator.Enabled() {
		geo = locator
	}
	svc := api.Services{
		Contacts: services.NewContactService(contactRepo, v, composer, queue, log, nil),
		Projects: services.NewProjectService(projectRepo, v, log),
		Blog:     services.NewBlogService(blogRepo, v, render.NewMarkdown(), cfg.Blog.DefaultAuthor, log, nil),
		Visitors: services.NewVisitorService(visitorRepo, v, geo, log, nil),
		Admin:    services.NewAdminService(contactRepo, visitorRepo, projectRepo, blogRepo),
	}
	log.Info("services initialised")

	var linkMonitor *monitor.LinkMonitor
	if cfg.Monitor.Enabled && db != nil {
		linkMonitor = monitor.NewLinkMonitor(projectRepo, cfg.Monitor.Schedule, log)
		if err := linkMonitor.Start(); err != nil {
			log.Warn("link monitor not started", zap.Error(err))
			linkMonitor = nil
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(api.RequestLogger(log), api.Recovery(log))

	var limits api.Limits
	if cfg.RateLimit.Enabled {
		limits.General = api.NewRateLimiter(cfg.RateLimit.GeneralPerWindow, cfg.RateLimit.GeneralWindow,
			"Too many requests from this IP, please try again later.")
		limits.Strict = api.NewRateLimiter(cfg.RateLimit.StrictPerWindow, cfg.RateLimit.StrictWindow,
			"Too many requests from this IP, please try again later.")
	}
	api.SetupRoutes(router, svc, limits, log)
	log.Info("API routes configured")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("base_url", cfg.Server.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if linkMonitor != nil {
		linkMonitor.Stop()
	}
	// Accepted notifications are delivered before exit.
	queue.Stop()
	log.Info("server stopped")
	return nil
}
