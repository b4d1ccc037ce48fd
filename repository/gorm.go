package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
	"gorm.io/gorm"
)

// table maps logical fields onto columns of one Postgres table
type table struct {
	name    string
	columns map[query.Field]string
	// live review count as a correlated subquery, empty when the kind has no reviews
	reviewCount string
	// selected by Find; cached counters are replaced by their live subqueries
	selects  string
	newModel func() any
}

const (
	institutionReviewCount = "(SELECT COUNT(*) FROM reviews WHERE reviews.institution_id = institutions.id)"
	institutionCourseCount = "(SELECT COUNT(*) FROM courses WHERE courses.institution_id = institutions.id)"
	courseReviewCount      = "(SELECT COUNT(*) FROM reviews WHERE reviews.course_id = courses.id)"
)

var tables = map[model.EntityKind]table{
	model.KindInstitution: {
		name: "institutions",
		columns: map[query.Field]string{
			query.FieldID:          "institutions.id",
			query.FieldName:        "institutions.name",
			query.FieldDescription: "institutions.description",
			query.FieldType:        "institutions.type",
			query.FieldCity:        "institutions.city",
			query.FieldState:       "institutions.state",
			query.FieldCountry:     "institutions.country",
			query.FieldRating:      "institutions.rating",
			query.FieldCreatedAt:   "institutions.created_at",
		},
		reviewCount: institutionReviewCount,
		selects: "institutions.id, institutions.name, institutions.description, institutions.type, " +
			"institutions.address, institutions.city, institutions.state, institutions.country, " +
			"institutions.website, institutions.phone, institutions.email, institutions.founded_year, " +
			"institutions.accreditation, institutions.image_url, institutions.rating, " +
			"institutions.created_at, institutions.updated_at, " +
			institutionReviewCount + " AS review_count, " +
			institutionCourseCount + " AS course_count",
		newModel: func() any { return &model.Institution{} },
	},
	model.KindCourse: {
		name: "courses",
		columns: map[query.Field]string{
			query.FieldID:            "courses.id",
			query.FieldTitle:         "courses.title",
			query.FieldDescription:   "courses.description",
			query.FieldLevel:         "courses.level",
			query.FieldFormat:        "courses.format",
			query.FieldInstitutionID: "courses.institution_id",
			query.FieldRating:        "courses.rating",
			query.FieldTuitionFee:    "courses.tuition_fee",
			query.FieldCreatedAt:     "courses.created_at",
		},
		reviewCount: courseReviewCount,
		selects: "courses.id, courses.created_at, courses.updated_at, courses.institution_id, " +
			"courses.title, courses.description, courses.level, courses.duration, courses.format, " +
			"courses.tuition_fee, courses.currency, courses.requirements, courses.image_url, " +
			"courses.rating, " +
			courseReviewCount + " AS review_count",
		newModel: func() any { return &model.Course{} },
	},
	model.KindReview: {
		name: "reviews",
		columns: map[query.Field]string{
			query.FieldID:            "reviews.id",
			query.FieldInstitutionID: "reviews.institution_id",
			query.FieldCourseID:      "reviews.course_id",
			query.FieldRating:        "reviews.rating",
			query.FieldCreatedAt:     "reviews.created_at",
		},
		newModel: func() any { return &model.Review{} },
	},
}

func tableFor(kind model.EntityKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	return t, nil
}

// GormRepository runs directory queries against PostgreSQL through GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a repository over db
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Count returns the number of rows of kind matching pred
func (r *GormRepository) Count(ctx context.Context, kind model.EntityKind, pred query.Predicate) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	q, err := r.filtered(ctx, t, pred)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	return total, nil
}

// Find returns one page of rows of kind matching pred. Institution and course
// rows carry live review and course counts.
func (r *GormRepository) Find(ctx context.Context, kind model.EntityKind, pred query.Predicate, sort []query.Sort, offset, limit int) ([]model.Entity, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	q, err := r.filtered(ctx, t, pred)
	if err != nil {
		return nil, err
	}

	order, err := orderBy(t, sort)
	if err != nil {
		return nil, err
	}
	if t.selects != "" {
		q = q.Select(t.selects)
	}
	if offset < 0 {
		offset = 0
	}
	q = q.Order(order).Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}

	switch kind {
	case model.KindInstitution:
		var rows []*model.Institution
		if err := q.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("find %s: %w", t.name, err)
		}
		return toEntities(rows), nil

	case model.KindCourse:
		var rows []*model.Course
		if err := q.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("find %s: %w", t.name, err)
		}
		if err := r.attachInstitutions(ctx, rows); err != nil {
			return nil, err
		}
		return toEntities(rows), nil

	default:
		var rows []*model.Review
		if err := q.Preload("User").Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("find %s: %w", t.name, err)
		}
		return toEntities(rows), nil
	}
}

// ChildCount counts the child rows referencing parentID
func (r *GormRepository) ChildCount(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind) (int64, error) {
	field, err := parentField(parent, child)
	if err != nil {
		return 0, err
	}
	return r.Count(ctx, child, query.Eq(field, parentID))
}

// FindChildren returns up to limit child rows referencing parentID
func (r *GormRepository) FindChildren(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind, sort []query.Sort, limit int) ([]model.Entity, error) {
	field, err := parentField(parent, child)
	if err != nil {
		return nil, err
	}
	return r.Find(ctx, child, query.Eq(field, parentID), sort, 0, limit)
}

func (r *GormRepository) filtered(ctx context.Context, t table, pred query.Predicate) (*gorm.DB, error) {
	where, args, err := buildWhere(pred, t.columns)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(t.newModel())
	if where != "" {
		q = q.Where(where, args...)
	}
	return q, nil
}

// attachInstitutions loads the summary block of each course's institution in one query
func (r *GormRepository) attachInstitutions(ctx context.Context, courses []*model.Course) error {
	if len(courses) == 0 {
		return nil
	}

	ids := make([]string, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if !seen[c.InstitutionID] {
			seen[c.InstitutionID] = true
			ids = append(ids, c.InstitutionID)
		}
	}

	var institutions []model.Institution
	if err := r.db.WithContext(ctx).
		Select("id, name, type, city, state, country, rating, " + institutionReviewCount + " AS review_count").
		Where("id IN ?", ids).
		Find(&institutions).Error; err != nil {
		return fmt.Errorf("load course institutions: %w", err)
	}

	byID := make(map[string]*model.InstitutionSummary, len(institutions))
	for i := range institutions {
		byID[institutions[i].ID] = institutions[i].Summary()
	}
	for _, c := range courses {
		c.Institution = byID[c.InstitutionID]
	}
	return nil
}

// buildWhere renders pred as a parameterized SQL boolean expression
func buildWhere(pred query.Predicate, columns map[query.Field]string) (string, []any, error) {
	switch p := pred.(type) {
	case nil:
		return "", nil, nil
	case query.And:
		return joinWhere(p, " AND ", columns)
	case query.Or:
		return joinWhere(p, " OR ", columns)
	case query.Condition:
		col, ok := columns[p.Field]
		if !ok {
			return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedField, p.Field)
		}
		switch p.Op {
		case query.OpEquals:
			return col + " = ?", []any{p.Value}, nil
		case query.OpContains:
			return col + " ILIKE ?", []any{"%" + escapeLike(fmt.Sprint(p.Value)) + "%"}, nil
		case query.OpGte:
			return col + " >= ?", []any{p.Value}, nil
		case query.OpLte:
			return col + " <= ?", []any{p.Value}, nil
		}
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedOp, p.Op)
	}
	return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedOp, pred)
}

func joinWhere(children []query.Predicate, sep string, columns map[query.Field]string) (string, []any, error) {
	var parts, raw []string
	var args []any
	for _, child := range children {
		s, a, err := buildWhere(child, columns)
		if err != nil {
			return "", nil, err
		}
		if s == "" {
			continue
		}
		raw = append(raw, s)
		parts = append(parts, "("+s+")")
		args = append(args, a...)
	}
	if len(raw) == 1 {
		return raw[0], args, nil
	}
	return strings.Join(parts, sep), args, nil
}

// orderBy renders sort keys plus the id tiebreak
func orderBy(t table, sort []query.Sort) (string, error) {
	keys := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		expr := t.columns[s.Field]
		if s.Field == query.FieldReviewCount {
			expr = t.reviewCount
		}
		if expr == "" {
			return "", fmt.Errorf("%w: cannot sort %s by %q", ErrUnsupportedField, t.name, s.Field)
		}
		if s.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		keys = append(keys, expr)
	}
	keys = append(keys, t.name+".id ASC")
	return strings.Join(keys, ", "), nil
}

// escapeLike escapes LIKE wildcards so user text matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
