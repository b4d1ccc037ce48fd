package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func strPtr(s string) *string { return &s }

// failingRepository fails every read
type failingRepository struct{ err error }

func (f failingRepository) Count(context.Context, model.EntityKind, query.Predicate) (int64, error) {
	return 0, f.err
}

func (f failingRepository) Find(context.Context, model.EntityKind, query.Predicate, []query.Sort, int, int) ([]model.Entity, error) {
	return nil, f.err
}

func (f failingRepository) ChildCount(context.Context, model.EntityKind, string, model.EntityKind) (int64, error) {
	return 0, f.err
}

func (f failingRepository) FindChildren(context.Context, model.EntityKind, string, model.EntityKind, []query.Sort, int) ([]model.Entity, error) {
	return nil, f.err
}

// countingRepository records how often per-row counts are requested
type countingRepository struct {
	repository.Repository
	childCounts atomic.Int64
}

func (c *countingRepository) ChildCount(ctx context.Context, parent model.EntityKind, id string, child model.EntityKind) (int64, error) {
	c.childCounts.Add(1)
	return c.Repository.ChildCount(ctx, parent, id, child)
}

func seedCourses(t *testing.T, n int) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	inst := repo.AddInstitution(model.Institution{ID: "inst-1", Name: "Northfield University"})
	for i := 0; i < n; i++ {
		repo.AddCourse(model.Course{ID: fmt.Sprintf("c-%02d", i), InstitutionID: inst, Title: "Applied Data Science", Rating: 4})
	}
	return repo
}

func TestSearchCourses_Pagination(t *testing.T) {
	svc := NewSearchService(seedCourses(t, 25), zaptest.NewLogger(t))
	ctx := context.Background()

	tests := []struct {
		page     string
		wantRows int
	}{
		{"1", 12},
		{"2", 12},
		{"3", 1},
		{"4", 0},
	}

	for _, tt := range tests {
		t.Run("page "+tt.page, func(t *testing.T) {
			res, err := svc.SearchCourses(ctx, query.Params{"search": "data", "limit": "12", "page": tt.page})
			require.NoError(t, err)
			assert.Len(t, res.Data, tt.wantRows)
			assert.NotNil(t, res.Data)
			assert.EqualValues(t, 25, res.Pagination.Total)
			assert.Equal(t, 3, res.Pagination.Pages)
			assert.Equal(t, 12, res.Pagination.Limit)
		})
	}
}

func TestSearchCourses_HugePageIsOutOfRange(t *testing.T) {
	svc := NewSearchService(seedCourses(t, 25), zaptest.NewLogger(t))

	// (page-1)*limit does not fit in an int for either request
	for _, limit := range []string{"3", "4"} {
		t.Run("limit "+limit, func(t *testing.T) {
			res, err := svc.SearchCourses(context.Background(), query.Params{"page": "4611686018427387905", "limit": limit})
			require.NoError(t, err)
			assert.NotNil(t, res.Data)
			assert.Empty(t, res.Data)
			assert.EqualValues(t, 25, res.Pagination.Total)
			assert.Equal(t, 4611686018427387905, res.Pagination.Page)
		})
	}
}

func TestSearchCourses_LargeLimitIssuesNoPerRowCounts(t *testing.T) {
	repo := &countingRepository{Repository: seedCourses(t, 25)}
	svc := NewSearchService(repo, zaptest.NewLogger(t))

	res, err := svc.SearchCourses(context.Background(), query.Params{"limit": "100000"})
	require.NoError(t, err)
	assert.Len(t, res.Data, 25)
	assert.Zero(t, repo.childCounts.Load())
}

func TestSearchInstitutions_MinRating(t *testing.T) {
	repo := repository.NewMemoryRepository()
	repo.AddInstitution(model.Institution{ID: "high", Name: "High", Rating: 4.5})
	repo.AddInstitution(model.Institution{ID: "low", Name: "Low", Rating: 3.0})
	svc := NewSearchService(repo, zaptest.NewLogger(t))

	res, err := svc.SearchInstitutions(context.Background(), query.Params{"minRating": "4"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "high", res.Data[0].EntityID())

	for _, params := range []query.Params{{"minRating": "0"}, {}} {
		res, err = svc.SearchInstitutions(context.Background(), params)
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
	}
}

func TestSearchInstitutions_LiveReviewCountOrdering(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ten := repo.AddInstitution(model.Institution{ID: "ten", Rating: 4.0, ReviewCount: 500})
	twenty := repo.AddInstitution(model.Institution{ID: "twenty", Rating: 4.0})
	repo.AddCourse(model.Course{InstitutionID: twenty, Title: "Law"})
	user := repo.AddUser(model.User{Name: "Linus"})
	for i := 0; i < 10; i++ {
		repo.AddReview(model.Review{UserID: user, Rating: 4, InstitutionID: strPtr(ten)})
	}
	for i := 0; i < 20; i++ {
		repo.AddReview(model.Review{UserID: user, Rating: 4, InstitutionID: strPtr(twenty)})
	}

	svc := NewSearchService(repo, zaptest.NewLogger(t))
	res, err := svc.SearchInstitutions(context.Background(), query.Params{})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)

	first := res.Data[0].(*model.Institution)
	second := res.Data[1].(*model.Institution)
	assert.Equal(t, twenty, first.ID)
	assert.Equal(t, 20, first.ReviewCount)
	assert.Equal(t, 1, first.CourseCount)
	assert.Equal(t, 10, second.ReviewCount, "cached count must be replaced")
}

func TestSearch_EmptyResultIsNotAnError(t *testing.T) {
	svc := NewSearchService(repository.NewMemoryRepository(), zaptest.NewLogger(t))

	res, err := svc.Search(context.Background(), model.KindCourse, query.Params{"search": "nothing"})
	require.NoError(t, err)
	assert.Equal(t, []model.Entity{}, res.Data)
	assert.Zero(t, res.Pagination.Total)
	assert.Zero(t, res.Pagination.Pages)
}

func TestSearch_UnsupportedKind(t *testing.T) {
	svc := NewSearchService(repository.NewMemoryRepository(), nil)
	_, err := svc.Search(context.Background(), model.KindReview, query.Params{})
	assert.ErrorIs(t, err, repository.ErrUnsupportedKind)
}

func TestSearch_RepositoryFailureIsRetrievable(t *testing.T) {
	svc := NewSearchService(failingRepository{err: errors.New("dial tcp: connection refused")}, zaptest.NewLogger(t))

	res, err := svc.SearchInstitutions(context.Background(), query.Params{})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrRepositoryUnavailable)
	assert.NotContains(t, err.Error(), "connection refused")
}
