package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
)

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	Status       string
	FeaturedOnly bool
}

// ProjectRepository defines data access for portfolio projects.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	ListProjects(ctx context.Context, filter ProjectFilter, page models.Pagination) ([]models.Project, int64, error)
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) (*models.Project, error)
	IncrementProjectViews(ctx context.Context, id string) (*models.Project, error)
	IncrementProjectLikes(ctx context.Context, id string) (*models.Project, error)
	CountProjects(ctx context.Context, status string) (int64, error)
	GetAllPublishedProjects(ctx context.Context) ([]models.Project, error)
}

// GormProjectRepository is the GORM implementation of ProjectRepository.
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates and returns a new GormProjectRepository.
func NewProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateProject inserts a new project.
func (r *GormProjectRepository) CreateProject(ctx context.Context, project *models.Project) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (f ProjectFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.FeaturedOnly {
		db = db.Where("featured = ?", true)
	}
	return db
}

// ListProjects returns projects sorted by display order, then newest first.
func (r *GormProjectRepository) ListProjects(ctx context.Context, filter ProjectFilter, page models.Pagination) ([]models.Project, int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&models.Project{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	projects := make([]models.Project, 0)
	err = db.Scopes(filter.scope).
		Order("sort_order ASC").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&projects).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProjectByID returns customerrors.ErrNotFound when id is unknown.
func (r *GormProjectRepository) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// UpdateProject writes every editable column of project. The counters are left
// out so concurrent views and likes are never overwritten by an edit.
func (r *GormProjectRepository) UpdateProject(ctx context.Context, project *models.Project) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	res := db.Model(project).Select("*").Omit("id", "views", "likes", "created_at").Updates(project)
	if res.Error != nil {
		return fmt.Errorf("failed to update project %s: %w", project.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project and returns the removed record.
func (r *GormProjectRepository) DeleteProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := r.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db, _ := conn(ctx, r.db)
	res := db.Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete project %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, customerrors.ErrNotFound
	}
	return project, nil
}

// increment bumps a counter column with a single UPDATE ... SET col = col + 1,
// then reads the record back.
func (r *GormProjectRepository) increment(ctx context.Context, id, column string) (*models.Project, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	res := db.Model(&models.Project{}).Where("id = ?", id).UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment %s for project %s: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, customerrors.ErrNotFound
	}
	return r.GetProjectByID(ctx, id)
}

// IncrementProjectViews atomically adds one view.
func (r *GormProjectRepository) IncrementProjectViews(ctx context.Context, id string) (*models.Project, error) {
	return r.increment(ctx, id, "views")
}

// IncrementProjectLikes atomically adds one like.
func (r *GormProjectRepository) IncrementProjectLikes(ctx context.Context, id string) (*models.Project, error) {
	return r.increment(ctx, id, "likes")
}

// CountProjects counts projects, optionally restricted to one status.
func (r *GormProjectRepository) CountProjects(ctx context.Context, status string) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&models.Project{}).Scopes(ProjectFilter{Status: status}.scope).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// GetAllPublishedProjects returns every published project, for the link monitor.
func (r *GormProjectRepository) GetAllPublishedProjects(ctx context.Context) ([]models.Project, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := db.Where("status = ?", string(models.StatusPublished)).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve published projects: %w", err)
	}
	return projects, nil
}
