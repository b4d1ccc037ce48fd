package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a rating left by a user on an institution or a course.
// Exactly one of InstitutionID and CourseID is set.
type Review struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	Rating        int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment"`
	UserID        string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	InstitutionID *string   `gorm:"type:varchar(36);index" json:"institutionId,omitempty"`
	CourseID      *string   `gorm:"type:varchar(36);index" json:"courseId,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Review) EntityID() string       { return r.ID }
func (r *Review) EntityKind() EntityKind { return KindReview }
