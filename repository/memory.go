package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sahilchouksey/edu-directory/model"
	"github.com/sahilchouksey/edu-directory/query"
)

// MemoryRepository keeps the directory in process memory. It serves tests
// and local demos and evaluates predicates with query.Match.
type MemoryRepository struct {
	mu           sync.RWMutex
	institutions []*model.Institution
	courses      []*model.Course
	reviews      []*model.Review
	users        map[string]*model.User
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*model.User)}
}

// AddInstitution stores a copy of inst and returns its id
func (m *MemoryRepository) AddInstitution(inst model.Institution) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	m.institutions = append(m.institutions, &inst)
	return inst.ID
}

// AddCourse stores a copy of c and returns its id
func (m *MemoryRepository) AddCourse(c model.Course) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.courses = append(m.courses, &c)
	return c.ID
}

// AddUser stores a copy of u and returns its id
func (m *MemoryRepository) AddUser(u model.User) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.ID] = &u
	return u.ID
}

// AddReview stores a copy of r and returns its id
func (m *MemoryRepository) AddReview(r model.Review) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.User = nil
	m.reviews = append(m.reviews, &r)
	return r.ID
}

func (m *MemoryRepository) Count(ctx context.Context, kind model.EntityKind, pred query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.matching(kind, pred, m.tally())
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (m *MemoryRepository) Find(ctx context.Context, kind model.EntityKind, pred query.Predicate, sortKeys []query.Sort, offset, limit int) ([]model.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := m.tally()
	rows, err := m.matching(kind, pred, counts)
	if err != nil {
		return nil, err
	}
	probe := recordOf(zeroOf(kind), counts)
	for _, s := range sortKeys {
		if _, ok := probe.Value(s.Field); !ok {
			return nil, fmt.Errorf("%w: cannot sort %s by %q", ErrUnsupportedField, kind, s.Field)
		}
	}

	type ranked struct {
		row model.Entity
		rec query.Record
	}
	sorted := make([]ranked, len(rows))
	for i, e := range rows {
		sorted[i] = ranked{row: e, rec: recordOf(e, counts)}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].rec, sorted[j].rec
		for _, s := range sortKeys {
			av, _ := a.Value(s.Field)
			bv, _ := b.Value(s.Field)
			c := query.Compare(av, bv)
			if c == 0 {
				continue
			}
			if s.Desc {
				return c > 0
			}
			return c < 0
		}
		return sorted[i].row.EntityID() < sorted[j].row.EntityID()
	})
	for i := range sorted {
		rows[i] = sorted[i].row
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []model.Entity{}, nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := make([]model.Entity, len(rows))
	for i, e := range rows {
		out[i] = m.view(e, counts)
	}
	return out, nil
}

func (m *MemoryRepository) ChildCount(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind) (int64, error) {
	field, err := parentField(parent, child)
	if err != nil {
		return 0, err
	}
	return m.Count(ctx, child, query.Eq(field, parentID))
}

func (m *MemoryRepository) FindChildren(ctx context.Context, parent model.EntityKind, parentID string, child model.EntityKind, sortKeys []query.Sort, limit int) ([]model.Entity, error) {
	field, err := parentField(parent, child)
	if err != nil {
		return nil, err
	}
	return m.Find(ctx, child, query.Eq(field, parentID), sortKeys, 0, limit)
}

func (m *MemoryRepository) matching(kind model.EntityKind, pred query.Predicate, counts liveCounts) ([]model.Entity, error) {
	var all []model.Entity
	switch kind {
	case model.KindInstitution:
		all = toEntities(m.institutions)
	case model.KindCourse:
		all = toEntities(m.courses)
	case model.KindReview:
		all = toEntities(m.reviews)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	var rows []model.Entity
	for _, e := range all {
		if query.Match(pred, recordOf(e, counts)) {
			rows = append(rows, e)
		}
	}
	return rows, nil
}

func zeroOf(kind model.EntityKind) model.Entity {
	switch kind {
	case model.KindInstitution:
		return &model.Institution{}
	case model.KindCourse:
		return &model.Course{}
	default:
		return &model.Review{}
	}
}

// liveCounts holds child row counts keyed by parent id
type liveCounts struct {
	institutionReviews map[string]int
	institutionCourses map[string]int
	courseReviews      map[string]int
}

// tally counts every child row in one pass
func (m *MemoryRepository) tally() liveCounts {
	counts := liveCounts{
		institutionReviews: make(map[string]int),
		institutionCourses: make(map[string]int),
		courseReviews:      make(map[string]int),
	}
	for _, r := range m.reviews {
		if r.InstitutionID != nil {
			counts.institutionReviews[*r.InstitutionID]++
		}
		if r.CourseID != nil {
			counts.courseReviews[*r.CourseID]++
		}
	}
	for _, c := range m.courses {
		counts.institutionCourses[c.InstitutionID]++
	}
	return counts
}

func recordOf(e model.Entity, counts liveCounts) query.Record {
	switch v := e.(type) {
	case *model.Institution:
		return query.RecordFunc(func(f query.Field) (any, bool) {
			switch f {
			case query.FieldID:
				return v.ID, true
			case query.FieldName:
				return v.Name, true
			case query.FieldDescription:
				return v.Description, true
			case query.FieldType:
				return string(v.Type), true
			case query.FieldCity:
				return v.City, true
			case query.FieldState:
				return v.State, true
			case query.FieldCountry:
				return v.Country, true
			case query.FieldRating:
				return v.Rating, true
			case query.FieldCreatedAt:
				return v.CreatedAt, true
			case query.FieldReviewCount:
				return counts.institutionReviews[v.ID], true
			}
			return nil, false
		})
	case *model.Course:
		return query.RecordFunc(func(f query.Field) (any, bool) {
			switch f {
			case query.FieldID:
				return v.ID, true
			case query.FieldTitle:
				return v.Title, true
			case query.FieldDescription:
				return v.Description, true
			case query.FieldLevel:
				return string(v.Level), true
			case query.FieldFormat:
				return string(v.Format), true
			case query.FieldInstitutionID:
				return v.InstitutionID, true
			case query.FieldRating:
				return v.Rating, true
			case query.FieldTuitionFee:
				return v.TuitionFee, true
			case query.FieldCreatedAt:
				return v.CreatedAt, true
			case query.FieldReviewCount:
				return counts.courseReviews[v.ID], true
			}
			return nil, false
		})
	case *model.Review:
		return query.RecordFunc(func(f query.Field) (any, bool) {
			switch f {
			case query.FieldID:
				return v.ID, true
			case query.FieldInstitutionID:
				return v.InstitutionID, true
			case query.FieldCourseID:
				return v.CourseID, true
			case query.FieldRating:
				return v.Rating, true
			case query.FieldCreatedAt:
				return v.CreatedAt, true
			}
			return nil, false
		})
	}
	return query.RecordFunc(func(query.Field) (any, bool) { return nil, false })
}

// view copies a stored row so callers cannot mutate the repository, and
// replaces the cached counts with live ones
func (m *MemoryRepository) view(e model.Entity, counts liveCounts) model.Entity {
	switch v := e.(type) {
	case *model.Institution:
		c := *v
		c.ReviewCount = counts.institutionReviews[c.ID]
		c.CourseCount = counts.institutionCourses[c.ID]
		return &c
	case *model.Course:
		c := *v
		c.ReviewCount = counts.courseReviews[c.ID]
		for _, inst := range m.institutions {
			if inst.ID == c.InstitutionID {
				c.Institution = inst.Summary()
				c.Institution.ReviewCount = counts.institutionReviews[inst.ID]
				break
			}
		}
		return &c
	case *model.Review:
		c := *v
		if u, ok := m.users[c.UserID]; ok {
			author := *u
			c.User = &author
		}
		return &c
	}
	return e
}
