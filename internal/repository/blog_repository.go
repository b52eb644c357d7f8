package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
)

// BlogFilter narrows a blog listing.
type BlogFilter struct {
	Status   string
	Tag      string
	Category string
}

// BlogRepository defines data access for blog posts.
type BlogRepository interface {
	CreatePost(ctx context.Context, post *models.BlogPost) error
	ListPosts(ctx context.Context, filter BlogFilter, page models.Pagination) ([]models.BlogPost, int64, error)
	GetPostByID(ctx context.Context, id string) (*models.BlogPost, error)
	IncrementPublishedPostViews(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	UpdatePost(ctx context.Context, post *models.BlogPost) error
	DeletePost(ctx context.Context, id string) (*models.BlogPost, error)
	PublishedTagLists(ctx context.Context) ([][]string, error)
	CountPosts(ctx context.Context, status string) (int64, error)
}

// GormBlogRepository is the GORM implementation of BlogRepository.
type GormBlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates and returns a new GormBlogRepository.
func NewBlogRepository(db *gorm.DB) *GormBlogRepository {
	return &GormBlogRepository{db: db}
}

// CreatePost inserts a new post.
func (r *GormBlogRepository) CreatePost(ctx context.Context, post *models.BlogPost) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}
	return nil
}

func (f BlogFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Tag != "" {
		db = db.Where(datatypes.JSONArrayQuery("tags").Contains(f.Tag))
	}
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	return db
}

// ListPosts returns a page of posts without their content body, most recently
// published first.
func (r *GormBlogRepository) ListPosts(ctx context.Context, filter BlogFilter, page models.Pagination) ([]models.BlogPost, int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.Model(&models.BlogPost{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blog posts: %w", err)
	}

	posts := make([]models.BlogPost, 0)
	err = db.Scopes(filter.scope).
		Omit("content").
		Order("published_at DESC").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, total, nil
}

// GetPostByID returns customerrors.ErrNotFound when id is unknown.
func (r *GormBlogRepository) GetPostByID(ctx context.Context, id string) (*models.BlogPost, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var post models.BlogPost
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// IncrementPublishedPostViews atomically adds one view to the published post
// with this slug and returns it. Drafts and archived posts are reported as not found.
func (r *GormBlogRepository) IncrementPublishedPostViews(ctx context.Context, slug string) (*models.BlogPost, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	res := db.Model(&models.BlogPost{}).
		Where("slug = ? AND status = ?", slug, string(models.StatusPublished)).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment views for post %q: %w", slug, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, customerrors.ErrNotFound
	}

	var post models.BlogPost
	if err := db.Where("slug = ? AND status = ?", slug, string(models.StatusPublished)).First(&post).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// SlugExists reports whether another post (not excludeID) already uses slug.
func (r *GormBlogRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return false, err
	}
	q := db.Model(&models.BlogPost{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

// UpdatePost writes every editable column of post, leaving the view counter alone.
func (r *GormBlogRepository) UpdatePost(ctx context.Context, post *models.BlogPost) error {
	db, err := conn(ctx, r.db)
	if err != nil {
		return err
	}
	res := db.Model(post).Select("*").Omit("id", "views", "created_at").Updates(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update blog post %s: %w", post.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return customerrors.ErrNotFound
	}
	return nil
}

// DeletePost removes a post and returns the removed record.
func (r *GormBlogRepository) DeletePost(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db, _ := conn(ctx, r.db)
	res := db.Where("id = ?", id).Delete(&models.BlogPost{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete blog post %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, customerrors.ErrNotFound
	}
	return post, nil
}

// PublishedTagLists returns the tag list of every published post.
func (r *GormBlogRepository) PublishedTagLists(ctx context.Context) ([][]string, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return nil, err
	}
	var lists []datatypes.JSONSlice[string]
	if err := db.Model(&models.BlogPost{}).Where("status = ?", string(models.StatusPublished)).Pluck("tags", &lists).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch blog tags: %w", err)
	}
	out := make([][]string, 0, len(lists))
	for _, l := range lists {
		out = append(out, []string(l))
	}
	return out, nil
}

// CountPosts counts posts, optionally restricted to one status.
func (r *GormBlogRepository) CountPosts(ctx context.Context, status string) (int64, error) {
	db, err := conn(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Model(&models.BlogPost{}).Scopes(BlogFilter{Status: status}.scope).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	return count, nil
}
