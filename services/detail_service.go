package services

import (
	"context"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/sahilchouksey/edu-directory/utils/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// TopCourses is the hard cap on courses in an institution detail
	TopCourses = 10
	// LatestReviews is the hard cap on reviews in any detail view
	LatestReviews = 5
)

// DetailService assembles single-entity views with their bounded children
type DetailService struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewDetailService creates a new detail service
func NewDetailService(repo repository.Repository, logger *zap.Logger) *DetailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailService{repo: repo, logger: logger}
}

// GetInstitution returns the institution with its top courses and latest reviews.
// A missing id yields ErrNotFound.
func (s *DetailService) GetInstitution(ctx context.Context, id string) (detail *model.InstitutionDetail, err error) {
	defer observeDetail(model.KindInstitution, &err)

	row, err := s.findOne(ctx, model.KindInstitution, id)
	if err != nil {
		return nil, err
	}
	inst := row.(*model.Institution)

	var courses, reviews []model.Entity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := s.repo.FindChildren(gctx, model.KindInstitution, id, model.KindCourse, query.ByRanking, TopCourses)
		courses = found
		return err
	})
	g.Go(func() error {
		found, err := s.repo.FindChildren(gctx, model.KindInstitution, id, model.KindReview, query.ByNewest, LatestReviews)
		reviews = found
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, unavailable(s.logger, "detail", model.KindInstitution, err)
	}

	return &model.InstitutionDetail{
		Institution: *inst,
		Courses:     typed[*model.Course](capped(courses, TopCourses)),
		Reviews:     typed[*model.Review](capped(reviews, LatestReviews)),
	}, nil
}

// GetCourse returns the course with its institution summary and latest reviews.
// A missing id yields ErrNotFound.
func (s *DetailService) GetCourse(ctx context.Context, id string) (detail *model.CourseDetail, err error) {
	defer observeDetail(model.KindCourse, &err)

	row, err := s.findOne(ctx, model.KindCourse, id)
	if err != nil {
		return nil, err
	}
	course := row.(*model.Course)

	reviews, err := s.repo.FindChildren(ctx, model.KindCourse, id, model.KindReview, query.ByNewest, LatestReviews)
	if err != nil {
		return nil, unavailable(s.logger, "detail", model.KindCourse, err)
	}

	return &model.CourseDetail{
		Course:  *course,
		Reviews: typed[*model.Review](capped(reviews, LatestReviews)),
	}, nil
}

func (s *DetailService) findOne(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error) {
	rows, err := s.repo.Find(ctx, kind, query.Eq(query.FieldID, id), nil, 0, 1)
	if err != nil {
		return nil, unavailable(s.logger, "detail", kind, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func observeDetail(kind model.EntityKind, err *error) {
	metrics.DetailRequests.WithLabelValues(string(kind), outcome(*err)).Inc()
}

func capped(rows []model.Entity, n int) []model.Entity {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// typed narrows rows to T and never returns nil, so JSON renders []
func typed[T model.Entity](rows []model.Entity) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
