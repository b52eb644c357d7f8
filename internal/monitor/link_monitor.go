// Package monitor periodically checks that the external links of published
// projects still answer.
package monitor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
)

// LinkMonitor checks the githubUrl and liveUrl of every published project on a
// cron schedule and logs when a link changes between reachable and unreachable.
type LinkMonitor struct {
	projects    repository.ProjectRepository
	schedule    string
	cron        *cron.Cron
	httpClient  *http.Client
	logger      *zap.Logger
	knownStates map[string]bool // "<project id>|<url>" -> reachable
	mu          sync.Mutex
}

// NewLinkMonitor creates a monitor running on schedule, e.g. "@every 30m".
func NewLinkMonitor(projects repository.ProjectRepository, schedule string, logger *zap.Logger) *LinkMonitor {
	return &LinkMonitor{
		projects:    projects,
		schedule:    schedule,
		cron:        cron.New(),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
		knownStates: make(map[string]bool),
	}
}

// Start registers the check with the scheduler and starts it. The first check
// runs at the first scheduled tick.
func (m *LinkMonitor) Start() error {
	if _, err := m.cron.AddFunc(m.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		m.CheckLinks(ctx)
	}); err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", m.schedule, err)
	}
	m.cron.Start()
	m.logger.Info("link monitor started", zap.String("schedule", m.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (m *LinkMonitor) Stop() {
	<-m.cron.Stop().Done()
}

// CheckLinks checks every link once and returns how many were reachable and unreachable.
func (m *LinkMonitor) CheckLinks(ctx context.Context) (up, down int) {
	projects, err := m.projects.GetAllPublishedProjects(ctx)
	if err != nil {
		m.logger.Error("failed to load projects for link monitoring", zap.Error(err))
		return 0, 0
	}

	for _, p := range projects {
		for _, link := range projectLinks(p) {
			err := m.check(ctx, link)
			reachable := err == nil
			if reachable {
				up++
			} else {
				down++
			}

			key := p.ID + "|" + link
			m.mu.Lock()
			previous, seen := m.knownStates[key]
			m.knownStates[key] = reachable
			m.mu.Unlock()

			switch {
			case !seen && !reachable:
				m.logger.Warn("project link unreachable", zap.String("project", p.Title), zap.Error(err))
			case seen && previous != reachable:
				m.logger.Warn("project link changed state",
					zap.String("project", p.Title),
					zap.String("url", link),
					zap.String("from", formatState(previous)),
					zap.String("to", formatState(reachable)),
				)
			}
		}
	}
	m.logger.Debug("link check completed", zap.Int("up", up), zap.Int("down", down))
	return up, down
}

func projectLinks(p models.Project) []string {
	links := make([]string, 0, 2)
	if p.GithubURL != nil && *p.GithubURL != "" {
		links = append(links, *p.GithubURL)
	}
	if p.LiveURL != nil && *p.LiveURL != "" {
		links = append(links, *p.LiveURL)
	}
	return links
}

// check sends a HEAD request; 2xx and 3xx count as reachable.
func (m *LinkMonitor) check(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return customerrors.ErrLinkCheckFailed{URL: url, Reason: err.Error()}
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return customerrors.ErrLinkCheckFailed{URL: url, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return customerrors.ErrLinkCheckFailed{URL: url, Reason: resp.Status}
	}
	return nil
}

func formatState(reachable bool) string {
	if reachable {
		return "reachable"
	}
	return "unreachable"
}
