package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
)

type stubProjects struct {
	repository.ProjectRepository
	projects []models.Project
	err      error
}

func (s stubProjects) GetAllPublishedProjects(context.Context) ([]models.Project, error) {
	return s.projects, s.err
}

func strPtr(s string) *string { return &s }

func TestCheckLinks(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer live.Close()
	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer gone.Close()

	projects := stubProjects{projects: []models.Project{
		{ID: "p1", Title: "Live site", LiveURL: strPtr(live.URL)},
		{ID: "p2", Title: "Dead repo", GithubURL: strPtr(gone.URL), LiveURL: strPtr("")},
		{ID: "p3", Title: "No links"},
	}}
	core, logs := observer.New(zapcore.WarnLevel)
	m := NewLinkMonitor(projects, "@every 1h", zap.New(core))

	up, down := m.CheckLinks(context.Background())
	assert.Equal(t, 1, up)
	assert.Equal(t, 1, down)
	assert.Equal(t, 1, logs.FilterMessage("project link unreachable").Len())

	// Unchanged states are not logged again.
	m.CheckLinks(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("project link unreachable").Len())
	assert.Zero(t, logs.FilterMessage("project link changed state").Len())

	healthy.Store(false)
	up, down = m.CheckLinks(context.Background())
	assert.Equal(t, 0, up)
	assert.Equal(t, 2, down)
	changed := logs.FilterMessage("project link changed state").All()
	require.Len(t, changed, 1)
	assert.Equal(t, "unreachable", changed[0].ContextMap()["to"])
}

func TestCheckLinksRepositoryFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	m := NewLinkMonitor(stubProjects{err: errors.New("boom")}, "@every 1h", zap.New(core))

	up, down := m.CheckLinks(context.Background())
	assert.Zero(t, up)
	assert.Zero(t, down)
	assert.Equal(t, 1, logs.Len())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewLinkMonitor(stubProjects{}, "not a schedule", zap.NewNop())
	assert.Error(t, m.Start())

	m = NewLinkMonitor(stubProjects{}, "@every 1h", zap.NewNop())
	require.NoError(t, m.Start())
	m.Stop()
}
