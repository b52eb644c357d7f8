package api

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/services"
)

// PageQuery is the page/limit pair every list endpoint accepts. It is
// exported so gin can bind it when embedded in a handler's query struct.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q PageQuery) request() services.PageRequest {
	return services.PageRequest{Page: q.Page, Limit: q.Limit}
}

// bindBody decodes the JSON body into dst. An empty body is accepted when
// allowEmpty is set.
func bindBody(c *gin.Context, dst any, allowEmpty bool) error {
	err := c.ShouldBindJSON(dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDateRange(start, end string) (models.DateRange, error) {
	var dr models.DateRange
	var err error
	if dr.Start, err = parseDate(start); err != nil {
		return dr, err
	}
	if dr.End, err = parseDate(end); err != nil {
		return dr, err
	}
	return dr, nil
}

func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		Referer:   c.GetHeader("Referer"),
	}
}
