package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// University represents a catalog entry that applicants can filter, compare and apply to.
// Records are read-only from the application's point of view; they are created by the seeder.
type University struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Country        string         `gorm:"type:varchar(120);not null;index" json:"country"`
	City           string         `gorm:"type:varchar(255)" json:"city"`
	DegreeLevel    string         `gorm:"type:varchar(60);not null;index" json:"degree_level"`
	TuitionFee     float64        `gorm:"not null;index" json:"tuition_fee"` // annual, single currency
	MinGPA         float64        `gorm:"column:min_gpa;not null" json:"min_gpa"`
	MinIELTS       float64        `gorm:"column:min_ielts;not null" json:"min_ielts"`
	Ranking        *int           `gorm:"index" json:"ranking,omitempty"` // nil means unranked
	AcceptanceRate *float64       `json:"acceptance_rate,omitempty"`
	ImageURL       string         `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`
	Programs       pq.StringArray `gorm:"type:text[]" json:"programs,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not provide one
func (u *University) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsRanked reports whether the university carries a ranking position
func (u University) IsRanked() bool {
	return u.Ranking != nil && *u.Ranking > 0
}
