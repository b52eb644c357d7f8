package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

// TrackVisitorHandler records a page view or unload beacon. The body is optional.
func TrackVisitorHandler(svc *services.VisitorService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.TrackInput
		if err := bindBody(c, &in, true); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		visitor, err := svc.Track(c.Request.Context(), in, clientInfo(c))
		if err != nil {
			respondError(c, logger, err, "", "Failed to track visitor")
			return
		}
		respondData(c, http.StatusOK, gin.H{"sessionId": visitor.SessionID})
	}
}

// AnalyticsSummaryHandler reports aggregate visitor analytics, optionally
// bounded by ?startDate= and ?endDate=.
func AnalyticsSummaryHandler(svc *services.VisitorService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		dr, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
		if err != nil {
			respondBadRequest(c, "Invalid date, expected YYYY-MM-DD or RFC 3339")
			return
		}

		summary, err := svc.Summary(c.Request.Context(), dr)
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch analytics")
			return
		}
		respondData(c, http.StatusOK, summary)
	}
}

// DailyStatsHandler reports visits per day over the last ?days= days (30 by default).
func DailyStatsHandler(svc *services.VisitorService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Days int `form:"days"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBadRequest(c, "Invalid query parameters")
			return
		}

		stats, err := svc.DailyStats(c.Request.Context(), q.Days)
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch stats")
			return
		}
		respondData(c, http.StatusOK, stats)
	}
}
