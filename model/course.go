package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseLevel is the academic level of a course
type CourseLevel string

const (
	LevelUndergraduate CourseLevel = "UNDERGRADUATE"
	LevelGraduate      CourseLevel = "GRADUATE"
	LevelDoctoral      CourseLevel = "DOCTORAL"
	LevelCertificate   CourseLevel = "CERTIFICATE"
)

// CourseFormat is how a course is delivered
type CourseFormat string

const (
	FormatOnline   CourseFormat = "ONLINE"
	FormatOnCampus CourseFormat = "ON_CAMPUS"
	FormatHybrid   CourseFormat = "HYBRID"
)

// Course represents a program offered by an institution (e.g., MCA, BBA)
type Course struct {
	ID            string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
	InstitutionID string       `gorm:"type:varchar(36);not null;index" json:"institutionId"`
	Title         string       `gorm:"not null;index" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Level         CourseLevel  `gorm:"type:varchar(32);index" json:"level"`
	Duration      string       `gorm:"type:varchar(100)" json:"duration"` // free text, e.g. "4 years"
	Format        CourseFormat `gorm:"type:varchar(32);index" json:"format"`
	TuitionFee    *float64     `json:"tuitionFee"`
	Currency      string       `gorm:"type:varchar(8);default:'USD'" json:"currency"`
	Requirements  string       `gorm:"type:text" json:"requirements"`
	ImageURL      string       `gorm:"type:varchar(500)" json:"imageUrl"`
	Rating        float64      `gorm:"default:0;index" json:"rating"`
	ReviewCount   int          `gorm:"default:0" json:"reviewCount"` // cached; views carry the live count

	// Loaded by the repository, not a gorm association
	Institution *InstitutionSummary `gorm:"-" json:"institution,omitempty"`

	Reviews []Review `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Course) EntityID() string       { return c.ID }
func (c *Course) EntityKind() EntityKind { return KindCourse }

// CourseDetail is a course with its latest reviews
type CourseDetail struct {
	Course
	Reviews []*Review `json:"reviews"`
}
