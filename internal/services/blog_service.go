package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

// Renderer turns a post's markdown body into safe HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// SEOInput carries optional search-engine metadata.
type SEOInput struct {
	MetaTitle       *string `json:"metaTitle"`
	MetaDescription *string `json:"metaDescription"`
	Keywords        any     `json:"keywords"`
}

// BlogInput is the payload of both post creation and partial update.
type BlogInput struct {
	Title         *string   `json:"title"`
	Slug          *string   `json:"slug"`
	Excerpt       *string   `json:"excerpt"`
	Content       *string   `json:"content"`
	Author        *string   `json:"author"`
	Tags          any       `json:"tags"`
	Category      *string   `json:"category"`
	FeaturedImage *string   `json:"featuredImage"`
	Status        *string   `json:"status"`
	ReadTime      *int      `json:"readTime"`
	SEO           *SEOInput `json:"seo"`
}

type seoRecord struct {
	MetaTitle       string `json:"metaTitle" validate:"max=200"`
	MetaDescription string `json:"metaDescription" validate:"max=500"`
	Keywords        any    `json:"keywords" validate:"omitempty,stringlist"`
}

// blogRecord is the merged state a post must satisfy before it is stored.
type blogRecord struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Slug          string    `json:"slug" validate:"required_with=Title,max=255"`
	Excerpt       string    `json:"excerpt" validate:"required,max=300"`
	Content       string    `json:"content" validate:"required"`
	Author        string    `json:"author" validate:"max=100"`
	Tags          any       `json:"tags" validate:"omitempty,stringlist"`
	Category      string    `json:"category" validate:"max=100"`
	FeaturedImage *string   `json:"featuredImage"`
	Status        string    `json:"status" validate:"required,oneof=draft published archived"`
	ReadTime      int       `json:"readTime" validate:"gte=1"`
	SEO           seoRecord `json:"seo"`
}

func recordFromPost(p *models.BlogPost) blogRecord {
	return blogRecord{
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Author:        p.Author,
		Tags:          []string(p.Tags),
		Category:      p.Category,
		FeaturedImage: p.FeaturedImage,
		Status:        string(p.Status),
		ReadTime:      p.ReadTime,
		SEO: seoRecord{
			MetaTitle:       p.SEO.MetaTitle,
			MetaDescription: p.SEO.MetaDescription,
			Keywords:        []string(p.SEO.Keywords),
		},
	}
}

// merge applies the patch. An explicit slug is normalized; the slug is never
// re-derived from a changed title.
func (r blogRecord) merge(in BlogInput) blogRecord {
	if in.Title != nil {
		r.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		r.Slug = Slugify(*in.Slug)
	}
	if in.Excerpt != nil {
		r.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Content != nil {
		r.Content = strings.TrimSpace(*in.Content)
	}
	if in.Author != nil && strings.TrimSpace(*in.Author) != "" {
		r.Author = strings.TrimSpace(*in.Author)
	}
	if in.Tags != nil {
		r.Tags = in.Tags
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		r.Category = strings.TrimSpace(*in.Category)
	}
	if in.FeaturedImage != nil {
		r.FeaturedImage = emptyToNil(in.FeaturedImage)
	}
	if in.Status != nil {
		r.Status = strings.TrimSpace(*in.Status)
	}
	if in.ReadTime != nil {
		r.ReadTime = *in.ReadTime
	}
	if in.SEO != nil {
		if in.SEO.MetaTitle != nil {
			r.SEO.MetaTitle = strings.TrimSpace(*in.SEO.MetaTitle)
		}
		if in.SEO.MetaDescription != nil {
			r.SEO.MetaDescription = strings.TrimSpace(*in.SEO.MetaDescription)
		}
		if in.SEO.Keywords != nil {
			r.SEO.Keywords = in.SEO.Keywords
		}
	}
	return r
}

func (r blogRecord) applyTo(p *models.BlogPost) {
	p.Title = r.Title
	p.Slug = r.Slug
	p.Excerpt = r.Excerpt
	p.Content = r.Content
	p.Author = r.Author
	p.Tags = datatypes.JSONSlice[string](toStringList(r.Tags))
	p.Category = r.Category
	p.FeaturedImage = r.FeaturedImage
	p.Status = models.PublishStatus(r.Status)
	p.ReadTime = r.ReadTime
	p.SEO = models.SEO{
		MetaTitle:       r.SEO.MetaTitle,
		MetaDescription: r.SEO.MetaDescription,
		Keywords:        datatypes.JSONSlice[string](toStringList(r.SEO.Keywords)),
	}
}

// BlogQuery filters a blog listing. An empty Status means published.
type BlogQuery struct {
	Status   string
	Tag      string
	Category string
	PageRequest
}

// BlogService manages blog posts.
type BlogService struct {
	repo          repository.BlogRepository
	validator     *validation.Validator
	renderer      Renderer
	defaultAuthor string
	logger        *zap.Logger
	now           Clock
}

// NewBlogService creates a BlogService. Posts without an author are credited to defaultAuthor.
func NewBlogService(repo repository.BlogRepository, v *validation.Validator, renderer Renderer, defaultAuthor string, logger *zap.Logger, now Clock) *BlogService {
	if now == nil {
		now = utcNow
	}
	return &BlogService{
		repo:          repo,
		validator:     v,
		renderer:      renderer,
		defaultAuthor: defaultAuthor,
		logger:        logger,
		now:           now,
	}
}

// List returns a page of post summaries, most recently published first.
func (s *BlogService) List(ctx context.Context, q BlogQuery) ([]models.BlogPost, models.Pagination, error) {
	status := q.Status
	if status == "" {
		status = string(models.StatusPublished)
	}
	page := q.resolve(DefaultPageLimit)
	filter := repository.BlogFilter{Status: status, Tag: q.Tag, Category: q.Category}
	posts, total, err := s.repo.ListPosts(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return posts, models.NewPagination(page.Page, page.Limit, total), nil
}

// GetBySlug returns a published post after counting one more view, with its
// content rendered to HTML. Drafts and archived posts are not found.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	post, err := s.repo.IncrementPublishedPostViews(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.renderer != nil {
		html, err := s.renderer.Render(post.Content)
		if err != nil {
			s.logger.Warn("failed to render blog post", zap.String("slug", slug), zap.Error(err))
		} else {
			post.ContentHTML = html
		}
	}
	return post, nil
}

// Create stores a new post. The slug comes from the payload or, failing that,
// from the title; publishedAt is stamped when the post is created published.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	base := &models.BlogPost{
		Author:   s.defaultAuthor,
		Category: models.DefaultBlogCategory,
		Status:   models.StatusDraft,
		ReadTime: models.DefaultReadTime,
	}
	record := recordFromPost(base).merge(in)
	if record.Slug == "" {
		record.Slug = Slugify(record.Title)
	}
	if err := s.check(ctx, record, ""); err != nil {
		return nil, err
	}

	post := &models.BlogPost{}
	record.applyTo(post)
	if post.Status == models.StatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("blog post created", zap.String("id", post.ID), zap.String("slug", post.Slug))
	return post, nil
}

// Update merges the patch into the stored post. publishedAt is stamped the
// first time the post becomes published and never moves afterwards.
func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*models.BlogPost, error) {
	post, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record := recordFromPost(post).merge(in)
	if err := s.check(ctx, record, id); err != nil {
		return nil, err
	}
	record.applyTo(post)

	if post.Status == models.StatusPublished && post.PublishedAt == nil {
		now := s.now()
		post.PublishedAt = &now
	}
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.repo.GetPostByID(ctx, id)
}

// check validates the record and then makes sure no other post owns its slug.
func (s *BlogService) check(ctx context.Context, record blogRecord, excludeID string) error {
	if err := s.validator.Struct(record); err != nil {
		return err
	}
	taken, err := s.repo.SlugExists(ctx, record.Slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return customerrors.NewValidationError("slug", "Slug already exists")
	}
	return nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.repo.DeletePost(ctx, id)
}

// ListTags returns the distinct non-empty tags of published posts, sorted.
func (s *BlogService) ListTags(ctx context.Context) ([]string, error) {
	lists, err := s.repo.PublishedTagLists(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, list := range lists {
		for _, tag := range list {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}
