package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
)

var (
	ErrUnsupportedKind  = errors.New("unsupported entity kind")
	ErrUnsupportedField = errors.New("unsupported field")
	ErrUnsupportedOp    = errors.New("unsupported operator")
)

// Repository is the read-only query surface over institutions, courses and reviews.
//
// Find orders rows by sort and then by id ascending, so equal sort keys page
// deterministically. Institution and course rows carry live review counts
// (institutions also their live course count) in place of the cached
// columns, so callers never issue per-row count queries. Course rows carry
// their owning institution summary and review rows carry their author.
type Repository interface {
	Count(ctx context.Context, kind model.EntityKind, pred query.Predicate) (int64, error)
	Find(ctx context.Context, kind model.EntityKind, pred query.Predicate, sort []query.Sort, offset, limit int) ([]model.Entity, error)
	ChildCount(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind) (int64, error)
	FindChildren(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind, sort []query.Sort, limit int) ([]model.Entity, error)
}

// parentField is the field of child that references a row of kind parent
func parentField(parent, child model.EntityKind) (query.Field, error) {
	switch {
	case parent == model.KindInstitution && (child == model.KindCourse || child == model.KindReview):
		return query.FieldInstitutionID, nil
	case parent == model.KindCourse && child == model.KindReview:
		return query.FieldCourseID, nil
	}
	return "", fmt.Errorf("%w: %s has no %s children", ErrUnsupportedKind, parent, child)
}

func toEntities[T model.Entity](rows []T) []model.Entity {
	out := make([]model.Entity, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
