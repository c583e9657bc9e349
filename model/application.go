package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationStatus is the lifecycle tag of an application
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid reports whether the status is one of the known lifecycle values
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// RequirementSnapshot records the minimums the application was checked against
type RequirementSnapshot struct {
	UniversityName string  `json:"university_name"`
	MinGPA         float64 `json:"min_gpa"`
	MinIELTS       float64 `json:"min_ielts"`
}

// Application is a submission to a single university.
// It is append-only for this service; status transitions past pending happen elsewhere.
type Application struct {
	ID                 string            `gorm:"type:uuid;primaryKey" json:"id"`
	UniversityID       string            `gorm:"type:uuid;not null;index" json:"university_id"`
	FirstName          string            `gorm:"type:varchar(255);not null" json:"first_name"`
	LastName           string            `gorm:"type:varchar(255);not null" json:"last_name"`
	Email              string            `gorm:"type:varchar(512);not null;index" json:"email"`
	Phone              *string           `gorm:"type:varchar(50)" json:"phone,omitempty"`
	DateOfBirth        *string           `gorm:"type:varchar(20)" json:"date_of_birth,omitempty"`
	Nationality        *string           `gorm:"type:varchar(120)" json:"nationality,omitempty"`
	GPA                float64           `gorm:"column:gpa;not null" json:"gpa"`
	IELTSScore         float64           `gorm:"column:ielts_score;not null" json:"ielts_score"`
	DegreeType         *string           `gorm:"type:varchar(60)" json:"degree_type,omitempty"`
	FieldOfStudy       string            `gorm:"type:varchar(255);not null" json:"field_of_study"`
	StatementOfPurpose *string           `gorm:"type:text" json:"statement_of_purpose,omitempty"`
	Status             ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	RequirementSnapshot datatypes.JSONType[RequirementSnapshot] `gorm:"type:jsonb" json:"requirement_snapshot"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relationships
	University *University `gorm:"foreignKey:UniversityID;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not provide one and
// refuses statuses outside the lifecycle
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = ApplicationStatusPending
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("invalid application status %q", a.Status)
	}
	return nil
}
