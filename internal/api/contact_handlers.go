package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashkamboj/portfolio/internal/services"
)

// SubmitContactHandler handles the public contact form. The notifications it
// triggers are queued; the response never waits for them.
func SubmitContactHandler(svc *services.ContactService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ContactInput
		if err := bindBody(c, &in, false); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		result, err := svc.Submit(c.Request.Context(), in, clientInfo(c))
		if err != nil {
			respondError(c, logger, err, "", "Failed to submit contact form. Please try again later.")
			return
		}
		c.JSON(http.StatusCreated, Envelope{
			Success: true,
			Message: result.Message,
			Data:    gin.H{"id": result.ID},
		})
	}
}

// ListContactsHandler lists submissions, newest first.
func ListContactsHandler(svc *services.ContactService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			PageQuery
			Status string `form:"status"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			respondBadRequest(c, "Invalid query parameters")
			return
		}

		contacts, page, err := svc.List(c.Request.Context(), q.Status, q.request())
		if err != nil {
			respondError(c, logger, err, "", "Failed to fetch contacts")
			return
		}
		respondPage(c, contacts, page)
	}
}

// UpdateContactStatusHandler changes the status of a submission.
func UpdateContactStatusHandler(svc *services.ContactService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ContactStatusInput
		if err := bindBody(c, &in, false); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}

		contact, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, logger, err, "Contact not found", "Failed to update contact")
			return
		}
		respondData(c, http.StatusOK, contact)
	}
}

// DeleteContactHandler removes a submission.
func DeleteContactHandler(svc *services.ContactService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		contact, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err, "Contact not found", "Failed to delete contact")
			return
		}
		c.JSON(http.StatusOK, Envelope{Success: true, Data: contact, Message: "Contact deleted successfully"})
	}
}
