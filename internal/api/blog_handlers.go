package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

const postNotFound = "Blog post not found"

// ListPostsHandler lists post summaries without their content.
func ListPostsHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			PageQuery
			Status   string `form:"status"`
			Tag      string `form:"tag"`
			Category string `form:"category"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBadRequest(c, "Invalid query parameters")
			return
		}

		posts, page, err := svc.List(c.Request.Context(), services.BlogQuery{
			Status:      q.Status,
			Tag:         q.Tag,
			Category:    q.Category,
			PageRequest: q.request(),
		})
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch blog posts")
			return
		}
		respondPage(c, posts, page)
	}
}

// GetPostHandler returns a published post by slug and counts the view.
func GetPostHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err, postNotFound, "Failed to fetch blog post")
			return
		}
		respondData(c, http.StatusOK, post)
	}
}

// CreatePostHandler creates a post.
func CreatePostHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.BlogInput
		if err := bindBody(c, &in, false); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		post, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, err, "", "Failed to create blog post")
			return
		}
		respondData(c, http.StatusCreated, post)
	}
}

// UpdatePostHandler applies a partial update to the post with the given id.
func UpdatePostHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.BlogInput
		if err := bindBody(c, &in, true); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		post, err := svc.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, logger, err, postNotFound, "Failed to update blog post")
			return
		}
		respondData(c, http.StatusOK, post)
	}
}

// DeletePostHandler deletes the post with the given id.
func DeletePostHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, postNotFound, "Failed to delete blog post")
			return
		}
		c.JSON(http.StatusOK, Envelope{Success: true, Data: post, Message: "Blog post deleted successfully"})
	}
}

// ListTagsHandler lists the tags used by published posts.
func ListTagsHandler(svc *services.BlogService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := svc.ListTags(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch tags")
			return
		}
		respondData(c, http.StatusOK, tags)
	}
}
