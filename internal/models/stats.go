package models

import "time"

// Pagination describes which slice of a filtered, sorted result set was returned.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset is the number of records skipped to reach the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// GroupCount is one bucket of a group-by count.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DateRange bounds a query on creation time. Nil ends are open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// VisitorOverview holds the headline counts of the analytics summary.
type VisitorOverview struct {
	TotalVisitors     int64 `json:"totalVisitors"`
	UniqueVisitors    int64 `json:"uniqueVisitors"`
	ReturningVisitors int64 `json:"returningVisitors"`
	NewVisitors       int64 `json:"newVisitors"`
}

// AnalyticsSummary is the composed analytics report.
type AnalyticsSummary struct {
	Overview         VisitorOverview `json:"overview"`
	Devices          []GroupCount    `json:"devices"`
	Browsers         []GroupCount    `json:"browsers"`
	OperatingSystems []GroupCount    `json:"operatingSystems"`
	TopPages         []GroupCount    `json:"topPages"`
	RecentVisitors   []VisitorDigest `json:"recentVisitors"`
}

// DailyStat is the visit count of one UTC calendar day.
type DailyStat struct {
	Date           string `json:"date"`
	Visits         int64  `json:"visits"`
	UniqueVisitors int64  `json:"uniqueVisitors"`
}

// ContactCounts is the contact block of the dashboard overview.
type ContactCounts struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
}

// VisitorCounts is the visitor block of the dashboard overview.
type VisitorCounts struct {
	Total  int64 `json:"total"`
	Unique int64 `json:"unique"`
}

// PublishCounts is the overview block of projects and blog posts.
type PublishCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// DashboardOverview groups the per-entity counts of the admin dashboard.
type DashboardOverview struct {
	Contacts ContactCounts `json:"contacts"`
	Visitors VisitorCounts `json:"visitors"`
	Projects PublishCounts `json:"projects"`
	Blog     PublishCounts `json:"blog"`
}

// DashboardRecent lists the latest activity shown on the admin dashboard.
type DashboardRecent struct {
	Contacts []ContactDigest `json:"contacts"`
	Visitors []VisitorDigest `json:"visitors"`
}

// Dashboard is the admin dashboard response.
type Dashboard struct {
	Overview DashboardOverview `json:"overview"`
	Recent   DashboardRecent   `json:"recent"`
}
