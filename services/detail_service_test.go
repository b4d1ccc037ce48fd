package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func seedDetailFixture(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	repo.AddInstitution(model.Institution{ID: "inst-1", Name: "Northfield University", ReviewCount: 999})
	repo.AddInstitution(model.Institution{ID: "inst-empty", Name: "Quiet College"})
	user := repo.AddUser(model.User{ID: "u-1", Name: "Ada"})

	for i := 0; i < 15; i++ {
		repo.AddCourse(model.Course{
			ID:            fmt.Sprintf("course-%02d", i),
			InstitutionID: "inst-1",
			Title:         fmt.Sprintf("Course %02d", i),
			Rating:        float64(i%5) + 0.5,
		})
	}

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		repo.AddReview(model.Review{UserID: user, Rating: 5, InstitutionID: strPtr("inst-1"), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	for i := 0; i < 3; i++ {
		repo.AddReview(model.Review{UserID: user, Rating: 4, CourseID: strPtr("course-04"), CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}
	return repo
}

func TestGetInstitution_CapsAndLiveCounts(t *testing.T) {
	svc := NewDetailService(seedDetailFixture(t), zaptest.NewLogger(t))

	detail, err := svc.GetInstitution(context.Background(), "inst-1")
	require.NoError(t, err)

	assert.Equal(t, 8, detail.ReviewCount)
	assert.Equal(t, 15, detail.CourseCount)
	assert.Len(t, detail.Courses, TopCourses)
	assert.Len(t, detail.Reviews, LatestReviews)

	for i := 1; i < len(detail.Courses); i++ {
		assert.GreaterOrEqual(t, detail.Courses[i-1].Rating, detail.Courses[i].Rating)
	}
	// course-04 and course-09 share the top rating; live reviews put course-04 first
	assert.Equal(t, "course-04", detail.Courses[0].ID)
	assert.Equal(t, 3, detail.Courses[0].ReviewCount)

	for i := 1; i < len(detail.Reviews); i++ {
		assert.True(t, detail.Reviews[i-1].CreatedAt.After(detail.Reviews[i].CreatedAt))
	}
	require.NotNil(t, detail.Reviews[0].User)
	assert.Equal(t, "Ada", detail.Reviews[0].User.Name)
}

func TestGetInstitution_EmptyChildren(t *testing.T) {
	svc := NewDetailService(seedDetailFixture(t), zaptest.NewLogger(t))

	detail, err := svc.GetInstitution(context.Background(), "inst-empty")
	require.NoError(t, err)
	assert.NotNil(t, detail.Courses)
	assert.NotNil(t, detail.Reviews)
	assert.Empty(t, detail.Courses)
	assert.Empty(t, detail.Reviews)
}

func TestGetInstitution_Missing(t *testing.T) {
	svc := NewDetailService(seedDetailFixture(t), zaptest.NewLogger(t))

	detail, err := svc.GetInstitution(context.Background(), "missing-id")
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCourse(t *testing.T) {
	svc := NewDetailService(seedDetailFixture(t), zaptest.NewLogger(t))

	detail, err := svc.GetCourse(context.Background(), "course-04")
	require.NoError(t, err)
	assert.Equal(t, 3, detail.ReviewCount)
	assert.Len(t, detail.Reviews, 3)
	require.NotNil(t, detail.Institution)
	assert.Equal(t, "Northfield University", detail.Institution.Name)
	assert.Equal(t, 8, detail.Institution.ReviewCount)

	_, err = svc.GetCourse(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetail_RepositoryFailure(t *testing.T) {
	svc := NewDetailService(failingRepository{err: errors.New("timeout")}, zaptest.NewLogger(t))

	_, err := svc.GetInstitution(context.Background(), "inst-1")
	assert.ErrorIs(t, err, ErrRepositoryUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}
