// Package services contains the business logic behind every API resource:
// validation, defaults, side effects and aggregation on top of the repositories.
package services

import (
	"strings"
	"time"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/notify"
)

// Default page sizes of the list operations.
const (
	DefaultPageLimit    = 20
	DefaultProjectLimit = 100
)

// ClientInfo describes the caller of a request as seen by the HTTP layer.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	Referer   string
}

// Notifier accepts messages for asynchronous delivery. Enqueue must not block.
type Notifier interface {
	Enqueue(msg notify.Message) bool
}

// Clock returns the current time; services take one so tests can pin it.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

// PageRequest is the 1-indexed page and page size a caller asked for.
// Non-positive values fall back to page 1 and the operation's default limit.
type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) resolve(defaultLimit int) models.Pagination {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return models.Pagination{Page: page, Limit: limit}
}

// emptyToNil maps a blank optional string to "unset".
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
