package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/render"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

func newBlogService(t *testing.T, clock *fixedClock) *BlogService {
	t.Helper()
	repo := repository.NewBlogRepository(newTestDB(t))
	return NewBlogService(repo, validation.New(), render.NewMarkdown(), "Yash", zap.NewNop(), clock.Now)
}

func blogInput(title, status string, tags ...string) BlogInput {
	list := make([]any, 0, len(tags))
	for _, tag := range tags {
		list = append(list, tag)
	}
	return BlogInput{
		Title:   strPtr(title),
		Excerpt: strPtr("A short excerpt"),
		Content: strPtr("# Heading\n\nSome **bold** text."),
		Status:  strPtr(status),
		Tags:    list,
	}
}

func TestBlogService_CreateDefaults(t *testing.T) {
	clock := newFixedClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	svc := newBlogService(t, clock)

	post, err := svc.Create(context.Background(), blogInput("Hello, World!", "draft"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Yash", post.Author)
	assert.Equal(t, models.DefaultBlogCategory, post.Category)
	assert.Equal(t, models.DefaultReadTime, post.ReadTime)
	assert.Equal(t, models.StatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestBlogService_PublishedAtIsStampedOnce(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	clock := newFixedClock(first)
	svc := newBlogService(t, clock)

	post, err := svc.Create(ctx, blogInput("Published at birth", "published"))
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.True(t, first.Equal(*post.PublishedAt))

	clock.Advance(24 * time.Hour)
	updated, err := svc.Update(ctx, post.ID, BlogInput{Status: strPtr("published")})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.True(t, first.Equal(*updated.PublishedAt), "re-publishing keeps the original date")

	draft, err := svc.Create(ctx, blogInput("Draft first", "draft"))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	published, err := svc.Update(ctx, draft.ID, BlogInput{Status: strPtr("published")})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, clock.Now().Equal(*published.PublishedAt))
	stamped := *published.PublishedAt

	clock.Advance(time.Hour)
	unpublished, err := svc.Update(ctx, draft.ID, BlogInput{Status: strPtr("draft")})
	require.NoError(t, err)
	require.NotNil(t, unpublished.PublishedAt)
	assert.True(t, stamped.Equal(*unpublished.PublishedAt))

	clock.Advance(time.Hour)
	republished, err := svc.Update(ctx, draft.ID, BlogInput{Status: strPtr("published")})
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.True(t, stamped.Equal(*republished.PublishedAt), "a round trip through draft keeps the first date")
}

func TestBlogService_SlugIsStable(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(t, newFixedClock(time.Now().UTC()))

	post, err := svc.Create(ctx, blogInput("Original Title", "draft"))
	require.NoError(t, err)
	require.Equal(t, "original-title", post.Slug)

	updated, err := svc.Update(ctx, post.ID, BlogInput{Title: strPtr("A Completely New Title")})
	require.NoError(t, err)
	assert.Equal(t, "A Completely New Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)

	updated, err = svc.Update(ctx, post.ID, BlogInput{Slug: strPtr("Custom Slug")})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", updated.Slug)
}

func TestBlogService_SlugConflict(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(t, newFixedClock(time.Now().UTC()))

	first, err := svc.Create(ctx, blogInput("Same Title", "draft"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, blogInput("Same Title", "draft"))
	verr, ok := customerrors.IsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, customerrors.FieldError{Field: "slug", Message: "Slug already exists"}, verr.Errors[0])

	// A post keeps its own slug on update.
	_, err = svc.Update(ctx, first.ID, BlogInput{Slug: strPtr("same-title")})
	assert.NoError(t, err)
}

func TestBlogService_CreateValidation(t *testing.T) {
	svc := newBlogService(t, newFixedClock(time.Now().UTC()))

	_, err := svc.Create(context.Background(), BlogInput{Title: strPtr("Only a title"), ReadTime: intPtr(0)})
	verr, ok := customerrors.IsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)

	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"excerpt", "content", "readTime"}, fields)
}

func TestBlogService_GetBySlug(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(t, newFixedClock(time.Now().UTC()))

	_, err := svc.Create(ctx, blogInput("Hidden Draft", "draft"))
	require.NoError(t, err)
	_, err = svc.GetBySlug(ctx, "hidden-draft")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	_, err = svc.Create(ctx, blogInput("Visible Post", "published"))
	require.NoError(t, err)

	post, err := svc.GetBySlug(ctx, "visible-post")
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Views)
	assert.Contains(t, post.ContentHTML, "<h1")
	assert.Contains(t, post.ContentHTML, "<strong>bold</strong>")

	post, err = svc.GetBySlug(ctx, "visible-post")
	require.NoError(t, err)
	assert.Equal(t, int64(2), post.Views)
}

func TestBlogService_ListAndTags(t *testing.T) {
	ctx := context.Background()
	clock := newFixedClock(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	svc := newBlogService(t, clock)

	_, err := svc.Create(ctx, blogInput("Go Tips", "published", "go", "backend"))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = svc.Create(ctx, blogInput("Databases", "published", "sql", "backend"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, blogInput("Secret Plans", "draft", "zzz"))
	require.NoError(t, err)

	tags, err := svc.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "go", "sql"}, tags)

	posts, page, err := svc.List(ctx, BlogQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, "databases", posts[0].Slug, "most recently published first")
	assert.Empty(t, posts[0].Content, "listings omit the body")

	tagged, _, err := svc.List(ctx, BlogQuery{Tag: "go"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "go-tips", tagged[0].Slug)

	drafts, _, err := svc.List(ctx, BlogQuery{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	none, _, err := svc.List(ctx, BlogQuery{Category: "travel"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBlogService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newBlogService(t, newFixedClock(time.Now().UTC()))

	post, err := svc.Create(ctx, blogInput("Short Lived", "draft"))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "short-lived", deleted.Slug)

	_, err = svc.Delete(ctx, post.ID)
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}
