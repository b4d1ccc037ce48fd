package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InstitutionType classifies an institution
type InstitutionType string

const (
	InstitutionUniversity       InstitutionType = "UNIVERSITY"
	InstitutionCollege          InstitutionType = "COLLEGE"
	InstitutionCommunityCollege InstitutionType = "COMMUNITY_COLLEGE"
	InstitutionInstitute        InstitutionType = "INSTITUTE"
)

// Institution represents an educational institution
type Institution struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string          `gorm:"not null;index" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Type          InstitutionType `gorm:"type:varchar(32);index" json:"type"`
	Address       string          `gorm:"type:varchar(255)" json:"address"`
	City          string          `gorm:"type:varchar(120);index" json:"city"`
	State         string          `gorm:"type:varchar(120)" json:"state"`
	Country       string          `gorm:"type:varchar(120)" json:"country"`
	Website       string          `gorm:"type:varchar(255)" json:"website"`
	Phone         string          `gorm:"type:varchar(50)" json:"phone"`
	Email         string          `gorm:"type:varchar(255)" json:"email"`
	FoundedYear   *int            `json:"foundedYear,omitempty"`
	Accreditation string          `gorm:"type:varchar(255)" json:"accreditation"`
	ImageURL      string          `gorm:"type:varchar(500)" json:"imageUrl"`
	Rating        float64         `gorm:"default:0;index" json:"rating"`
	ReviewCount   int             `gorm:"default:0" json:"reviewCount"` // cached; views carry the live count
	CourseCount   int             `gorm:"->;-:migration" json:"courseCount"` // live, selected by the repository
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// Relationships
	Courses []Course `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews []Review `gorm:"foreignKey:InstitutionID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not
func (i *Institution) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Institution) EntityID() string       { return i.ID }
func (i *Institution) EntityKind() EntityKind { return KindInstitution }

// Summary returns the fields embedded in course views
func (i *Institution) Summary() *InstitutionSummary {
	return &InstitutionSummary{
		ID:          i.ID,
		Name:        i.Name,
		Type:        i.Type,
		City:        i.City,
		State:       i.State,
		Country:     i.Country,
		Rating:      i.Rating,
		ReviewCount: i.ReviewCount,
	}
}

// InstitutionSummary is the owning-institution block attached to courses
type InstitutionSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        InstitutionType `json:"type"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	Country     string          `json:"country"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
}

// InstitutionDetail is an institution with its top courses and latest reviews
type InstitutionDetail struct {
	Institution
	Courses []*Course `json:"courses"`
	Reviews []*Review `json:"reviews"`
}
