package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
	"github.com/sahilchouksey/edu-directory/repository"
	"github.com/sahilchouksey/edu-directory/utils/metrics"
	"github.com/sahilchouksey/edu-directory/utils/response"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchService runs faceted, paginated searches over institutions and courses
type SearchService struct {
	repo   repository.Repository
	logger *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(repo repository.Repository, logger *zap.Logger) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{repo: repo, logger: logger}
}

// SearchResult is one page of entities plus pagination metadata
type SearchResult struct {
	Data       []model.Entity          `json:"data"`
	Pagination response.PaginationMeta `json:"pagination"`
}

// SearchInstitutions filters institutions by search, type, city, state, country and minRating
func (s *SearchService) SearchInstitutions(ctx context.Context, raw query.Params) (*SearchResult, error) {
	filter, page := query.ParseInstitutionParams(raw)
	return s.run(ctx, model.KindInstitution, filter.Predicate(), page)
}

// SearchCourses filters courses by search, level, format, institutionId, minRating and maxTuition
func (s *SearchService) SearchCourses(ctx context.Context, raw query.Params) (*SearchResult, error) {
	filter, page := query.ParseCourseParams(raw)
	return s.run(ctx, model.KindCourse, filter.Predicate(), page)
}

// Search dispatches on kind
func (s *SearchService) Search(ctx context.Context, kind model.EntityKind, raw query.Params) (*SearchResult, error) {
	switch kind {
	case model.KindInstitution:
		return s.SearchInstitutions(ctx, raw)
	case model.KindCourse:
		return s.SearchCourses(ctx, raw)
	}
	return nil, fmt.Errorf("%w: %q is not searchable", repository.ErrUnsupportedKind, kind)
}

// run issues the count and page reads concurrently. They are two separate
// reads, so a write landing between them can make total and data disagree
// by that write.
func (s *SearchService) run(ctx context.Context, kind model.EntityKind, pred query.Predicate, page query.Page) (result *SearchResult, err error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
		metrics.SearchRequests.WithLabelValues(string(kind), outcome(err)).Inc()
	}()

	var (
		total int64
		rows  []model.Entity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, kind, pred)
		total = n
		return err
	})
	if offset, ok := page.Offset(); ok {
		g.Go(func() error {
			found, err := s.repo.Find(gctx, kind, pred, query.ByRanking, offset, page.Limit)
			rows = found
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, unavailable(s.logger, "search", kind, err)
	}

	if rows == nil {
		rows = []model.Entity{}
	}

	s.logger.Debug("search completed",
		zap.String("kind", string(kind)),
		zap.Int("page", page.Number),
		zap.Int("limit", page.Limit),
		zap.Int64("total", total),
		zap.Int("returned", len(rows)),
	)

	return &SearchResult{
		Data:       rows,
		Pagination: response.CalculatePagination(page.Number, page.Limit, total),
	}, nil
}
