package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Params are the raw query-string values of a search request
type Params map[string]string

func (p Params) text(key string) string {
	return strings.TrimSpace(p[key])
}

// number parses a finite float; anything else is treated as absent
func (p Params) number(key string) *float64 {
	s := p.text(key)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

func (p Params) positiveInt(key string, def int) int {
	n, err := strconv.Atoi(p.text(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// Offset is the number of rows to skip. ok is false when the offset does not
// fit in an int; no repository can hold that many rows, so the page is empty.
func (p Page) Offset() (offset int, ok bool) {
	if p.Number < 1 || p.Limit < 1 {
		return 0, true
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return 0, false
	}
	return (p.Number - 1) * p.Limit, true
}

// ParsePage reads page and limit, falling back to 1 and 12
func ParsePage(p Params) Page {
	return Page{
		Number: p.positiveInt("page", DefaultPage),
		Limit:  p.positiveInt("limit", DefaultLimit),
	}
}

// InstitutionFilter is the normalized institution search request
type InstitutionFilter struct {
	Search    string
	Type      string
	City      string
	State     string
	Country   string
	MinRating *float64
}

// ParseInstitutionParams normalizes raw parameters. Empty values mean no constraint.
func ParseInstitutionParams(p Params) (InstitutionFilter, Page) {
	return InstitutionFilter{
		Search:    p.text("search"),
		Type:      p.text("type"),
		City:      p.text("city"),
		State:     p.text("state"),
		Country:   p.text("country"),
		MinRating: positive(p.number("minRating")),
	}, ParsePage(p)
}

// Predicate builds the AND of every active constraint
func (f InstitutionFilter) Predicate() Predicate {
	and := And{}
	if f.Search != "" {
		and = append(and, Or{Contains(FieldName, f.Search), Contains(FieldDescription, f.Search)})
	}
	if f.Type != "" {
		and = append(and, Eq(FieldType, f.Type))
	}
	if f.City != "" {
		and = append(and, Contains(FieldCity, f.City))
	}
	if f.State != "" {
		and = append(and, Contains(FieldState, f.State))
	}
	if f.Country != "" {
		and = append(and, Contains(FieldCountry, f.Country))
	}
	if f.MinRating != nil {
		and = append(and, Gte(FieldRating, *f.MinRating))
	}
	return and
}

// CourseFilter is the normalized course search request
type CourseFilter struct {
	Search        string
	Level         string
	Format        string
	InstitutionID string
	MinRating     *float64
	MaxTuition    *float64
}

// ParseCourseParams normalizes raw parameters. Empty values mean no constraint.
func ParseCourseParams(p Params) (CourseFilter, Page) {
	return CourseFilter{
		Search:        p.text("search"),
		Level:         p.text("level"),
		Format:        p.text("format"),
		InstitutionID: p.text("institutionId"),
		MinRating:     positive(p.number("minRating")),
		MaxTuition:    p.number("maxTuition"),
	}, ParsePage(p)
}

// Predicate builds the AND of every active constraint
func (f CourseFilter) Predicate() Predicate {
	and := And{}
	if f.Search != "" {
		and = append(and, Or{Contains(FieldTitle, f.Search), Contains(FieldDescription, f.Search)})
	}
	if f.Level != "" {
		and = append(and, Eq(FieldLevel, f.Level))
	}
	if f.Format != "" {
		and = append(and, Eq(FieldFormat, f.Format))
	}
	if f.InstitutionID != "" {
		and = append(and, Eq(FieldInstitutionID, f.InstitutionID))
	}
	if f.MinRating != nil {
		and = append(and, Gte(FieldRating, *f.MinRating))
	}
	if f.MaxTuition != nil {
		and = append(and, Lte(FieldTuitionFee, *f.MaxTuition))
	}
	return and
}

// a rating floor of zero or below excludes nothing
func positive(n *float64) *float64 {
	if n == nil || *n <= 0 {
		return nil
	}
	return n
}
