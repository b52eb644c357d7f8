package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success    bool                      `json:"success"`
	Data       any                       `json:"data,omitempty"`
	Message    string                    `json:"message,omitempty"`
	Errors     []customerrors.FieldError `json:"errors,omitempty"`
	Pagination *models.Pagination        `json:"pagination,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondPage(c *gin.Context, data any, page models.Pagination) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &page})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: status < http.StatusBadRequest, Message: message})
}

// respondError maps a service error onto the envelope: validation failures
// become 400 with one entry per field, unknown ids 404 with notFound, and
// anything else a 500 with failure. Internal details are only logged.
func respondError(c *gin.Context, logger *zap.Logger, err error, notFound, failure string) {
	if ve, ok := customerrors.IsValidation(err); ok {
		c.JSON(http.StatusBadRequest, Envelope{Success: false, Errors: ve.Errors})
		return
	}
	if errors.Is(err, customerrors.ErrNotFound) {
		respondMessage(c, http.StatusNotFound, notFound)
		return
	}
	logger.Error(failure,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	respondMessage(c, http.StatusInternalServerError, failure)
}

func respondBadRequest(c *gin.Context, message string) {
	respondMessage(c, http.StatusBadRequest, message)
}
