package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

// DashboardHandler returns the admin dashboard.
func DashboardHandler(svc *services.AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch dashboard data")
			return
		}
		respondData(c, http.StatusOK, dashboard)
	}
}
