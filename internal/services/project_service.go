package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

// ProjectInput is the payload of both project creation and partial update.
// Nil fields are left as they are; an empty URL clears it.
// Tags and technologies are decoded loosely so a scalar is reported as a
// validation error instead of a decoding failure.
type ProjectInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	LongDescription *string `json:"longDescription"`
	Tags            any     `json:"tags"`
	Technologies    any     `json:"technologies"`
	GithubURL       *string `json:"githubUrl"`
	LiveURL         *string `json:"liveUrl"`
	ImageURL        *string `json:"imageUrl"`
	Featured        *bool   `json:"featured"`
	Status          *string `json:"status"`
	Order           *int    `json:"order"`
}

// projectRecord is the merged state a project must satisfy before it is stored.
type projectRecord struct {
	Title           string  `json:"title" validate:"required,max=100"`
	Description     string  `json:"description" validate:"required,max=500"`
	LongDescription string  `json:"longDescription" validate:"max=2000"`
	Tags            any     `json:"tags" validate:"omitempty,stringlist"`
	Technologies    any     `json:"technologies" validate:"omitempty,stringlist"`
	GithubURL       *string `json:"githubUrl" validate:"omitempty,weburl"`
	LiveURL         *string `json:"liveUrl" validate:"omitempty,weburl"`
	ImageURL        *string `json:"imageUrl"`
	Featured        bool    `json:"featured"`
	Status          string  `json:"status" validate:"required,oneof=draft published archived"`
	Order           int     `json:"order"`
}

func recordFromProject(p *models.Project) projectRecord {
	return projectRecord{
		Title:           p.Title,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Tags:            []string(p.Tags),
		Technologies:    []string(p.Technologies),
		GithubURL:       p.GithubURL,
		LiveURL:         p.LiveURL,
		ImageURL:        p.ImageURL,
		Featured:        p.Featured,
		Status:          string(p.Status),
		Order:           p.Order,
	}
}

func (r projectRecord) merge(in ProjectInput) projectRecord {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	if in.LongDescription != nil {
		r.LongDescription = strings.TrimSpace(*in.LongDescription)
	}
	if in.Tags != nil {
		r.Tags = in.Tags
	}
	if in.Technologies != nil {
		r.Technologies = in.Technologies
	}
	if in.GithubURL != nil {
		r.GithubURL = emptyToNil(in.GithubURL)
	}
	if in.LiveURL != nil {
		r.LiveURL = emptyToNil(in.LiveURL)
	}
	if in.ImageURL != nil {
		r.ImageURL = emptyToNil(in.ImageURL)
	}
	if in.Featured != nil {
		r.Featured = *in.Featured
	}
	if in.Status != nil {
		r.Status = strings.TrimSpace(*in.Status)
	}
	if in.Order != nil {
		r.Order = *in.Order
	}
	return r
}

func (r projectRecord) applyTo(p *models.Project) {
	p.Title = r.Title
	p.Description = r.Description
	p.LongDescription = r.LongDescription
	p.Tags = datatypes.JSONSlice[string](toStringList(r.Tags))
	p.Technologies = datatypes.JSONSlice[string](toStringList(r.Technologies))
	p.GithubURL = r.GithubURL
	p.LiveURL = r.LiveURL
	p.ImageURL = r.ImageURL
	p.Featured = r.Featured
	p.Status = models.PublishStatus(r.Status)
	p.Order = r.Order
}

// ProjectQuery filters a project listing. An empty Status means published.
type ProjectQuery struct {
	Status       string
	FeaturedOnly bool
	PageRequest
}

// ProjectService manages portfolio projects.
type ProjectService struct {
	repo      repository.ProjectRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(repo repository.ProjectRepository, v *validation.Validator, logger *zap.Logger) *ProjectService {
	return &ProjectService{repo: repo, validator: v, logger: logger}
}

// List returns projects in display order. Without a status only published
// projects are listed; the default page holds 100 projects.
func (s *ProjectService) List(ctx context.Context, q ProjectQuery) ([]models.Project, models.Pagination, error) {
	status := q.Status
	if status == "" {
		status = string(models.StatusPublished)
	}
	page := q.resolve(DefaultProjectLimit)
	projects, total, err := s.repo.ListProjects(ctx, repository.ProjectFilter{Status: status, FeaturedOnly: q.FeaturedOnly}, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return projects, models.NewPagination(page.Page, page.Limit, total), nil
}

// GetByID returns the project after counting one more view.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.IncrementProjectViews(ctx, id)
}

// Create validates in against an empty draft project and stores the result.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	record := recordFromProject(&models.Project{Status: models.StatusDraft}).merge(in)
	if err := s.validator.Struct(record); err != nil {
		return nil, err
	}

	project := &models.Project{}
	record.applyTo(project)
	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	s.logger.Info("project created", zap.String("id", project.ID), zap.String("title", project.Title))
	return project, nil
}

// Update merges the patch into the stored project and validates the result the
// same way Create does.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*models.Project, error) {
	project, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := recordFromProject(project).merge(in)
	if err := s.validator.Struct(record); err != nil {
		return nil, err
	}
	record.applyTo(project)
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return s.repo.GetProjectByID(ctx, id)
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.DeleteProject(ctx, id)
}

// Like adds one like. Every call counts.
func (s *ProjectService) Like(ctx context.Context, id string) (*models.Project, error) {
	return s.repo.IncrementProjectLikes(ctx, id)
}

// toStringList converts a validated string list into trimmed strings, dropping blanks.
func toStringList(v any) []string {
	out := make([]string, 0)
	switch list := v.(type) {
	case []string:
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, el := range list {
			if s, ok := el.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
