// Package api exposes the services over HTTP with gin.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

// Services bundles the business services the routes dispatch to.
type Services struct {
	Contacts *services.ContactService
	Projects *services.ProjectService
	Blog     *services.BlogService
	Visitors *services.VisitorService
	Admin    *services.AdminService
}

// Limits holds the optional rate limiters. A nil limiter disables that limit.
type Limits struct {
	General *RateLimiter // every /api route
	Strict  *RateLimiter // /api/contact and /api/admin
}

// SetupRoutes registers every API route on router.
func SetupRoutes(router *gin.Engine, svc Services, limits Limits, logger *zap.Logger) {
	api := router.Group("/api")
	if limits.General != nil {
		api.Use(limits.General.Middleware())
	}
	strict := func(g *gin.RouterGroup) {
		if limits.Strict != nil {
			g.Use(limits.Strict.Middleware())
		}
	}

	api.GET("/health", HealthCheckHandler)

	contact := api.Group("/contact")
	strict(contact)
	{
		contact.POST("", SubmitContactHandler(svc.Contacts, logger))
		contact.GET("", ListContactsHandler(svc.Contacts, logger))
		contact.PATCH("/:id", UpdateContactStatusHandler(svc.Contacts, logger))
		contact.DELETE("/:id", DeleteContactHandler(svc.Contacts, logger))
	}

	projects := api.Group("/projects")
	{
		projects.GET("", ListProjectsHandler(svc.Projects, logger))
		projects.POST("", CreateProjectHandler(svc.Projects, logger))
		projects.GET("/:id", GetProjectHandler(svc.Projects, logger))
		projects.PATCH("/:id", UpdateProjectHandler(svc.Projects, logger))
		projects.DELETE("/:id", DeleteProjectHandler(svc.Projects, logger))
		projects.POST("/:id/like", LikeProjectHandler(svc.Projects, logger))
	}

	blog := api.Group("/blog")
	{
		blog.GET("", ListPostsHandler(svc.Blog, logger))
		blog.GET("/tags/list", ListTagsHandler(svc.Blog, logger))
		blog.GET("/:slug", GetPostHandler(svc.Blog, logger))
		blog.POST("", CreatePostHandler(svc.Blog, logger))
		blog.PATCH("/:id", UpdatePostHandler(svc.Blog, logger))
		blog.DELETE("/:id", DeletePostHandler(svc.Blog, logger))
	}

	analytics := api.Group("/analytics")
	{
		analytics.POST("/track", TrackVisitorHandler(svc.Visitors, logger))
		analytics.GET("/summary", AnalyticsSummaryHandler(svc.Visitors, logger))
		analytics.GET("/stats", DailyStatsHandler(svc.Visitors, logger))
	}

	admin := api.Group("/admin")
	strict(admin)
	{
		admin.GET("/dashboard", DashboardHandler(svc.Admin, logger))
	}

	router.NoRoute(NotFoundHandler)
}

// HealthCheckHandler reports that the process is up. It is not wrapped in the envelope.
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}

// NotFoundHandler answers unknown routes.
func NotFoundHandler(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		respondMessage(c, http.StatusNotFound, "API route not found")
		return
	}
	respondMessage(c, http.StatusNotFound, "Not found")
}
