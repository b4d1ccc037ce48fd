// Package query holds the filter language shared by the search service and
// the repositories: a closed set of field conditions combined with AND/OR
// nodes, sort keys, and the normalization of raw request parameters.
package query

// Field is a logical field name. Repositories map it onto their own storage.
type Field string

const (
	FieldID            Field = "id"
	FieldName          Field = "name"
	FieldTitle         Field = "title"
	FieldDescription   Field = "description"
	FieldType          Field = "type"
	FieldLevel         Field = "level"
	FieldFormat        Field = "format"
	FieldInstitutionID Field = "institution_id"
	FieldCourseID      Field = "course_id"
	FieldCity          Field = "city"
	FieldState         Field = "state"
	FieldCountry       Field = "country"
	FieldRating        Field = "rating"
	FieldTuitionFee    Field = "tuition_fee"
	FieldCreatedAt     Field = "created_at"

	// FieldReviewCount always means the live number of child reviews,
	// never the cached column.
	FieldReviewCount Field = "review_count"
)

// Op is a comparison operator
type Op string

const (
	OpEquals   Op = "eq"
	OpContains Op = "icontains" // case-insensitive substring
	OpGte      Op = "gte"
	OpLte      Op = "lte"
)

// Predicate is one of Condition, And or Or. A nil Predicate matches everything.
type Predicate interface {
	isPredicate()
}

// Condition compares one field against a value
type Condition struct {
	Field Field
	Op    Op
	Value any
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when any child matches. An empty Or matches everything.
type Or []Predicate

func (Condition) isPredicate() {}
func (And) isPredicate()       {}
func (Or) isPredicate()        {}

func Eq(f Field, v any) Condition          { return Condition{Field: f, Op: OpEquals, Value: v} }
func Contains(f Field, s string) Condition { return Condition{Field: f, Op: OpContains, Value: s} }
func Gte(f Field, v float64) Condition     { return Condition{Field: f, Op: OpGte, Value: v} }
func Lte(f Field, v float64) Condition     { return Condition{Field: f, Op: OpLte, Value: v} }

// Sort is one ordering key
type Sort struct {
	Field Field
	Desc  bool
}

var (
	// ByRanking orders by rating then by live review count, both descending.
	// Repositories append the id as a final ascending key.
	ByRanking = []Sort{{Field: FieldRating, Desc: true}, {Field: FieldReviewCount, Desc: true}}

	// ByNewest orders reviews by creation time, most recent first
	ByNewest = []Sort{{Field: FieldCreatedAt, Desc: true}}
)
