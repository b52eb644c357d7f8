package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

const (
	iPadUA    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type staticGeo struct{ country, city string }

func (g staticGeo) Locate(string) (string, string) { return g.country, g.city }

func TestVisitorService_Track(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewVisitorRepository(newTestDB(t))
	svc := NewVisitorService(repo, validation.New(), staticGeo{country: "France", city: "Paris"}, zap.NewNop(), nil)

	client := ClientInfo{IPAddress: "198.51.100.4", UserAgent: iPadUA, Referer: "https://news.example.com/"}
	first, err := svc.Track(ctx, TrackInput{}, client)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceTablet, first.Device)
	assert.Equal(t, "Safari", first.Browser)
	assert.Equal(t, "iOS", first.OS)
	assert.Equal(t, "/", first.Page)
	assert.False(t, first.IsReturning)
	assert.True(t, strings.HasPrefix(first.SessionID, "session_"))
	require.NotNil(t, first.Referrer)
	assert.Equal(t, "https://news.example.com/", *first.Referrer, "falls back to the request header")
	require.NotNil(t, first.Country)
	assert.Equal(t, "France", *first.Country)
	assert.Equal(t, "Paris", *first.City)

	second, err := svc.Track(ctx, TrackInput{
		Page:      "/blog",
		Referrer:  strPtr("https://search.example.org/"),
		SessionID: first.SessionID,
		Duration:  42,
	}, client)
	require.NoError(t, err)
	assert.True(t, second.IsReturning)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "/blog", second.Page)
	assert.Equal(t, 42, second.Duration)
	assert.Equal(t, "https://search.example.org/", *second.Referrer)
	assert.NotEqual(t, first.ID, second.ID, "every beacon is a new row")
}

func TestVisitorService_TrackUnknownClient(t *testing.T) {
	svc := NewVisitorService(repository.NewVisitorRepository(newTestDB(t)), validation.New(), nil, zap.NewNop(), nil)

	v, err := svc.Track(context.Background(), TrackInput{}, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, "unknown", v.IPAddress)
	assert.Equal(t, "unknown", v.UserAgent)
	assert.Equal(t, models.DeviceUnknown, v.Device)
	assert.Nil(t, v.Referrer)
	assert.Nil(t, v.Country)

	_, err = svc.Track(context.Background(), TrackInput{Duration: -1}, ClientInfo{})
	_, ok := customerrors.IsValidation(err)
	assert.True(t, ok)
}

func TestVisitorService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewVisitorRepository(newTestDB(t))
	svc := NewVisitorService(repo, validation.New(), nil, zap.NewNop(), nil)

	visits := []struct {
		ip, ua, page string
	}{
		{"10.0.0.1", desktopUA, "/"},
		{"10.0.0.1", desktopUA, "/projects"},
		{"10.0.0.2", iPadUA, "/"},
		{"10.0.0.3", desktopUA, "/blog"},
	}
	for _, v := range visits {
		_, err := svc.Track(ctx, TrackInput{Page: v.page}, ClientInfo{IPAddress: v.ip, UserAgent: v.ua})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, models.VisitorOverview{TotalVisitors: 4, UniqueVisitors: 3, ReturningVisitors: 1, NewVisitors: 3}, summary.Overview)
	assert.Equal(t, []models.GroupCount{{Key: "desktop", Count: 3}, {Key: "tablet", Count: 1}}, summary.Devices)
	assert.Equal(t, []models.GroupCount{{Key: "Chrome", Count: 3}, {Key: "Safari", Count: 1}}, summary.Browsers)
	assert.Equal(t, models.GroupCount{Key: "/", Count: 2}, summary.TopPages[0])
	assert.Len(t, summary.RecentVisitors, 4)

	future := time.Now().UTC().Add(time.Hour)
	empty, err := svc.Summary(ctx, models.DateRange{Start: &future})
	require.NoError(t, err)
	assert.Zero(t, empty.Overview.TotalVisitors)
	assert.Empty(t, empty.Devices)
}

func TestVisitorService_SummaryDateRange(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewVisitorRepository(newTestDB(t))
	svc := NewVisitorService(repo, validation.New(), nil, zap.NewNop(), nil)

	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	rows := []models.Visitor{
		{IPAddress: "10.0.0.1", Device: models.DeviceDesktop, Page: "/", CreatedAt: day(1, 9)},
		{IPAddress: "10.0.0.1", Device: models.DeviceDesktop, Page: "/about", IsReturning: true, CreatedAt: day(2, 9)},
		{IPAddress: "10.0.0.2", Device: models.DeviceMobile, Page: "/", CreatedAt: day(5, 9)},
		{IPAddress: "10.0.0.3", Device: models.DeviceTablet, Page: "/blog", CreatedAt: day(9, 9)},
	}
	for i := range rows {
		require.NoError(t, repo.CreateVisitor(ctx, &rows[i]))
	}

	end := day(2, 12)
	early, err := svc.Summary(ctx, models.DateRange{End: &end})
	require.NoError(t, err)
	assert.Equal(t, models.VisitorOverview{TotalVisitors: 2, UniqueVisitors: 1, ReturningVisitors: 1, NewVisitors: 1}, early.Overview)
	assert.Equal(t, []models.GroupCount{{Key: "desktop", Count: 2}}, early.Devices)
	assert.Len(t, early.RecentVisitors, 2)

	end = day(5, 9)
	inclusive, err := svc.Summary(ctx, models.DateRange{End: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(3), inclusive.Overview.TotalVisitors, "a visit at the end instant is counted")

	start := day(2, 0)
	window, err := svc.Summary(ctx, models.DateRange{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(2), window.Overview.TotalVisitors)
	assert.Equal(t, int64(2), window.Overview.UniqueVisitors)
}

func TestVisitorService_DailyStats(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewVisitorRepository(newTestDB(t))
	clock := newFixedClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	svc := NewVisitorService(repo, validation.New(), nil, zap.NewNop(), clock.Now)

	rows := []struct {
		ip string
		at time.Time
	}{
		{"10.0.0.1", time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)},
		{"10.0.0.1", time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC)},
		{"10.0.0.1", time.Date(2026, 3, 8, 18, 0, 0, 0, time.UTC)},
		{"10.0.0.2", time.Date(2026, 3, 8, 19, 0, 0, 0, time.UTC)},
		{"10.0.0.2", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)},
	}
	for _, r := range rows {
		require.NoError(t, repo.CreateVisitor(ctx, &models.Visitor{IPAddress: r.ip, CreatedAt: r.at}))
	}

	stats, err := svc.DailyStats(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.DailyStat{
		{Date: "2026-03-08", Visits: 3, UniqueVisitors: 2},
		{Date: "2026-03-10", Visits: 1, UniqueVisitors: 1},
	}, stats)

	all, err := svc.DailyStats(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive days fall back to the default window")
}
