package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
)

// DashboardRecentLimit is how many recent contacts and visitors the dashboard shows.
const DashboardRecentLimit = 5

// AdminService composes the admin dashboard from every repository.
type AdminService struct {
	contacts repository.ContactRepository
	visitors repository.VisitorRepository
	projects repository.ProjectRepository
	posts    repository.BlogRepository
}

// NewAdminService creates an AdminService.
func NewAdminService(contacts repository.ContactRepository, visitors repository.VisitorRepository, projects repository.ProjectRepository, posts repository.BlogRepository) *AdminService {
	return &AdminService{contacts: contacts, visitors: visitors, projects: projects, posts: posts}
}

// Dashboard runs every count and recent-activity query concurrently. It only
// reads; any failing query fails the dashboard.
func (s *AdminService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	d := &models.Dashboard{}
	o := &d.Overview
	published := string(models.StatusPublished)
	all := models.DateRange{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		o.Contacts.Total, err = s.contacts.CountContacts(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		o.Contacts.Pending, err = s.contacts.CountContacts(gctx, string(models.ContactPending))
		return err
	})
	g.Go(func() (err error) {
		o.Visitors.Total, err = s.visitors.CountVisitors(gctx, all, nil)
		return err
	})
	g.Go(func() (err error) {
		o.Visitors.Unique, err = s.visitors.CountDistinctIPs(gctx, all)
		return err
	})
	g.Go(func() (err error) {
		o.Projects.Total, err = s.projects.CountProjects(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		o.Projects.Published, err = s.projects.CountProjects(gctx, published)
		return err
	})
	g.Go(func() (err error) {
		o.Blog.Total, err = s.posts.CountPosts(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		o.Blog.Published, err = s.posts.CountPosts(gctx, published)
		return err
	})
	g.Go(func() (err error) {
		d.Recent.Contacts, err = s.contacts.RecentContacts(gctx, DashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		visitors, err := s.visitors.RecentVisitors(gctx, all, DashboardRecentLimit)
		if err != nil {
			return err
		}
		// The dashboard does not show the operating system.
		for i := range visitors {
			visitors[i].OS = ""
		}
		d.Recent.Visitors = visitors
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
