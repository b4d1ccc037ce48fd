package model

// EntityKind names one of the collections the directory can query
type EntityKind string

const (
	KindInstitution EntityKind = "institution"
	KindCourse      EntityKind = "course"
	KindReview      EntityKind = "review"
)

// Entity is any row returned by a repository
type Entity interface {
	EntityID() string
	EntityKind() EntityKind
}
