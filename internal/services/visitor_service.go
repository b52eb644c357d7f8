package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

// Sizes of the analytics summary lists.
const (
	TopPagesLimit       = 10
	RecentVisitorsLimit = 10
	DefaultStatsDays    = 30
)

// GeoLocator resolves an address to a country and city. Empty strings mean unknown.
type GeoLocator interface {
	Locate(ip string) (country, city string)
}

// TrackInput is the beacon payload sent by the browser on page load and unload.
type TrackInput struct {
	Page      string  `json:"page" validate:"max=500"`
	Referrer  *string `json:"referrer" validate:"omitempty,max=1000"`
	SessionID string  `json:"sessionId" validate:"max=100"`
	Duration  int     `json:"duration" validate:"gte=0"`
}

// VisitorService records page views and reports on them.
type VisitorService struct {
	repo      repository.VisitorRepository
	validator *validation.Validator
	geo       GeoLocator
	logger    *zap.Logger
	now       Clock
}

// NewVisitorService creates a VisitorService. geo may be nil, in which case
// country and city stay empty.
func NewVisitorService(repo repository.VisitorRepository, v *validation.Validator, geo GeoLocator, logger *zap.Logger, now Clock) *VisitorService {
	if now == nil {
		now = utcNow
	}
	return &VisitorService{repo: repo, validator: v, geo: geo, logger: logger, now: now}
}

// Track stores one visit and returns the session id the client should reuse.
// Every call inserts a row, including the unload beacon of a view already recorded.
func (s *VisitorService) Track(ctx context.Context, in TrackInput, client ClientInfo) (*models.Visitor, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	ip := client.IPAddress
	if ip == "" {
		ip = "unknown"
	}
	ua := client.UserAgent
	if ua == "" {
		ua = "unknown"
	}

	returning, err := s.repo.HasVisited(ctx, ip)
	if err != nil {
		return nil, err
	}

	profile := DetectClient(ua)
	visitor := &models.Visitor{
		IPAddress:      ip,
		UserAgent:      ua,
		Referrer:       referrerOf(in.Referrer, client.Referer),
		Device:         profile.Device,
		Browser:        profile.Browser,
		BrowserVersion: profile.BrowserVersion,
		OS:             profile.OS,
		OSVersion:      profile.OSVersion,
		IsBot:          profile.IsBot,
		Page:           strings.TrimSpace(in.Page),
		SessionID:      strings.TrimSpace(in.SessionID),
		Duration:       in.Duration,
		IsReturning:    returning,
	}
	if visitor.Page == "" {
		visitor.Page = "/"
	}
	if visitor.SessionID == "" {
		visitor.SessionID = "session_" + uuid.NewString()
	}
	if s.geo != nil {
		if country, city := s.geo.Locate(ip); country != "" || city != "" {
			visitor.Country = emptyToNil(&country)
			visitor.City = emptyToNil(&city)
		}
	}

	if err := s.repo.CreateVisitor(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}

// referrerOf prefers the referrer reported by the page over the request header.
func referrerOf(body *string, header string) *string {
	if r := emptyToNil(body); r != nil {
		return r
	}
	return emptyToNil(&header)
}

// Summary aggregates the visits created inside dr. The sub-queries run
// concurrently; the first failure fails the whole summary.
func (s *VisitorService) Summary(ctx context.Context, dr models.DateRange) (*models.AnalyticsSummary, error) {
	summary := &models.AnalyticsSummary{}
	returning, fresh := true, false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.Overview.TotalVisitors, err = s.repo.CountVisitors(gctx, dr, nil)
		return err
	})
	g.Go(func() (err error) {
		summary.Overview.UniqueVisitors, err = s.repo.CountDistinctIPs(gctx, dr)
		return err
	})
	g.Go(func() (err error) {
		summary.Overview.ReturningVisitors, err = s.repo.CountVisitors(gctx, dr, &returning)
		return err
	})
	g.Go(func() (err error) {
		summary.Overview.NewVisitors, err = s.repo.CountVisitors(gctx, dr, &fresh)
		return err
	})
	g.Go(func() (err error) {
		summary.Devices, err = s.repo.GroupVisitorsBy(gctx, "device", dr, 0)
		return err
	})
	g.Go(func() (err error) {
		summary.Browsers, err = s.repo.GroupVisitorsBy(gctx, "browser", dr, 0)
		return err
	})
	g.Go(func() (err error) {
		summary.OperatingSystems, err = s.repo.GroupVisitorsBy(gctx, "os", dr, 0)
		return err
	})
	g.Go(func() (err error) {
		summary.TopPages, err = s.repo.GroupVisitorsBy(gctx, "page", dr, TopPagesLimit)
		return err
	})
	g.Go(func() (err error) {
		summary.RecentVisitors, err = s.repo.RecentVisitors(gctx, dr, RecentVisitorsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// DailyStats counts visits and distinct addresses per UTC day over the last
// days days, oldest day first. Days without visits are omitted.
func (s *VisitorService) DailyStats(ctx context.Context, days int) ([]models.DailyStat, error) {
	if days < 1 {
		days = DefaultStatsDays
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	hits, err := s.repo.VisitsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		visits int64
		ips    map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, h := range hits {
		day := h.CreatedAt.UTC().Format(time.DateOnly)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{ips: make(map[string]struct{})}
			buckets[day] = b
		}
		b.visits++
		b.ips[h.IPAddress] = struct{}{}
	}

	stats := make([]models.DailyStat, 0, len(buckets))
	for day, b := range buckets {
		stats = append(stats, models.DailyStat{Date: day, Visits: b.visits, UniqueVisitors: int64(len(b.ips))})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}
