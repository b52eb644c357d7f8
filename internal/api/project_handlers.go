package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

const projectNotFound = "Project not found"

// ListProjectsHandler lists projects; published ones unless ?status= says otherwise.
func ListProjectsHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			PageQuery
			Status   string `form:"status"`
			Featured string `form:"featured"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBadRequest(c, "Invalid query parameters")
			return
		}

		projects, page, err := svc.List(c.Request.Context(), services.ProjectQuery{
			Status:       q.Status,
			FeaturedOnly: q.Featured == "true",
			PageRequest:  q.request(),
		})
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch projects")
			return
		}
		respondPage(c, projects, page)
	}
}

// GetProjectHandler returns one project and counts the view.
func GetProjectHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, projectNotFound, "Failed to fetch project")
			return
		}
		respondData(c, http.StatusOK, project)
	}
}

// CreateProjectHandler creates a project.
func CreateProjectHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ProjectInput
		if err := bindBody(c, &in, false); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		project, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, err, "", "Failed to create project")
			return
		}
		respondData(c, http.StatusCreated, project)
	}
}

// UpdateProjectHandler applies a partial update.
func UpdateProjectHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ProjectInput
		if err := bindBody(c, &in, true); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		project, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, logger, err, projectNotFound, "Failed to update project")
			return
		}
		respondData(c, http.StatusOK, project)
	}
}

// DeleteProjectHandler deletes a project.
func DeleteProjectHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, projectNotFound, "Failed to delete project")
			return
		}
		c.JSON(http.StatusOK, Envelope{Success: true, Data: project, Message: "Project deleted successfully"})
	}
}

// LikeProjectHandler adds a like.
func LikeProjectHandler(svc *services.ProjectService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := svc.Like(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, projectNotFound, "Failed to like project")
			return
		}
		respondData(c, http.StatusOK, project)
	}
}
