package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customerrors "github.com/yashkamboj/portfolio/internal/errors"
	"github.com/yashkamboj/portfolio/internal/models"
	"github.com/yashkamboj/portfolio/internal/repository"
	"github.com/yashkamboj/portfolio/internal/validation"
)

func newProjectService(t *testing.T) *ProjectService {
	t.Helper()
	return NewProjectService(repository.NewProjectRepository(newTestDB(t)), validation.New(), zap.NewNop())
}

func TestProjectService_CreateDefaultsToDraft(t *testing.T) {
	ctx := context.Background()
	svc := newProjectService(t)

	p, err := svc.Create(ctx, ProjectInput{
		Title:       strPtr("Portfolio API"),
		Description: strPtr("Backend of my site"),
		Tags:        []any{"go", "  ", " api "},
		GithubURL:   strPtr("https://github.com/example/api"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, []string{"go", "api"}, []string(p.Tags))
	assert.Equal(t, []string{}, []string(p.Technologies))
	assert.Zero(t, p.Views)
	assert.Zero(t, p.Likes)

	published, _, err := svc.List(ctx, ProjectQuery{})
	require.NoError(t, err)
	assert.Empty(t, published, "drafts are not listed by default")

	drafts, page, err := svc.List(ctx, ProjectQuery{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, DefaultProjectLimit, page.Limit)
}

func TestProjectService_CreateValidation(t *testing.T) {
	svc := newProjectService(t)

	_, err := svc.Create(context.Background(), ProjectInput{
		Title:       strPtr("Broken"),
		Description: strPtr("Has bad fields"),
		Tags:        "go",
		LiveURL:     strPtr("not a url"),
		Status:      strPtr("hidden"),
	})
	verr, ok := customerrors.IsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)

	fields := make(map[string]string)
	for _, fe := range verr.Errors {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "Tags must be an array of strings", fields["tags"])
	assert.Equal(t, "Please provide a valid URL", fields["liveUrl"])
	assert.Contains(t, fields, "status")
	assert.Len(t, fields, 3)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newProjectService(t)

	p, err := svc.Create(ctx, ProjectInput{
		Title:       strPtr("Original"),
		Description: strPtr("Original description"),
		LiveURL:     strPtr("https://example.dev"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, ProjectInput{
		Title:    strPtr("Renamed"),
		LiveURL:  strPtr(""),
		Status:   strPtr("published"),
		Featured: boolPtr(true),
		Order:    intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Original description", updated.Description)
	assert.Nil(t, updated.LiveURL)
	assert.True(t, updated.Featured)
	assert.Equal(t, models.StatusPublished, updated.Status)
	assert.Equal(t, 3, updated.Order)

	_, err = svc.Update(ctx, p.ID, ProjectInput{Title: strPtr("")})
	verr, ok := customerrors.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "title", verr.Errors[0].Field)

	_, err = svc.Update(ctx, "missing", ProjectInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, customerrors.ErrNotFound)

	featured, _, err := svc.List(ctx, ProjectQuery{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, p.ID, featured[0].ID)
}

func TestProjectService_ViewsAndLikes(t *testing.T) {
	ctx := context.Background()
	svc := newProjectService(t)

	p, err := svc.Create(ctx, ProjectInput{Title: strPtr("Counted"), Description: strPtr("Counts views")})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := svc.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.Views)
	}

	const likers = 20
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Like(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(likers), got.Likes)

	_, err = svc.Like(ctx, "missing")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestProjectService_ListPagination(t *testing.T) {
	ctx := context.Background()
	svc := newProjectService(t)

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, ProjectInput{
			Title:       strPtr("Project"),
			Description: strPtr("Listed"),
			Status:      strPtr("published"),
			Order:       intPtr(i),
		})
		require.NoError(t, err)
	}

	projects, page, err := svc.List(ctx, ProjectQuery{PageRequest: PageRequest{Page: 2, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, projects, 10)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, page)
	for i, p := range projects {
		assert.Equal(t, 10+i, p.Order)
	}
}

func TestProjectService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newProjectService(t)

	p, err := svc.Create(ctx, ProjectInput{Title: strPtr("Gone"), Description: strPtr("Soon deleted")})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gone", deleted.Title)

	_, err = svc.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestToStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, toStringList([]string{" a", "", "b "}))
	assert.Equal(t, []string{"a"}, toStringList([]any{"a", " "}))
	assert.Equal(t, []string{}, toStringList(nil))
}
