package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

// Application is a volunteer's request to join a project. The unique index on
// (project_id, volunteer_id) backs up the creation-path duplicate check.
type Application struct {
	ID              uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_project_volunteer" json:"project_id"`
	VolunteerID     uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_project_volunteer" json:"volunteer_id"`
	VolunteerRole   types.VolunteerRole     `gorm:"not null" json:"volunteer_role"`
	CoverLetter     string                  `gorm:"not null" json:"cover_letter"`
	Skills          datatypes.JSON          `json:"skills,omitempty"`
	ExperienceYears *int                    `json:"experience_years,omitempty"`
	PortfolioURL    string                  `json:"portfolio_url,omitempty"`
	LinkedinURL     string                  `json:"linkedin_url,omitempty"`
	GithubURL       string                  `json:"github_url,omitempty"`
	Status          types.ApplicationStatus `gorm:"not null;index" json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`

	// Relationships
	Project   Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Volunteer User    `gorm:"foreignKey:VolunteerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
