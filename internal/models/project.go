package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

type Project struct {
	ID                     uuid.UUID               `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID                uuid.UUID               `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title                  string                  `gorm:"not null" json:"title"`
	Description            string                  `gorm:"not null" json:"description"`
	ProjectType            types.ProjectType       `gorm:"not null" json:"project_type"`
	PreferredTechnologies  string                  `json:"preferred_technologies,omitempty"`
	EstimatedTimeline      types.EstimatedTimeline `json:"estimated_timeline,omitempty"`
	Status                 types.ProjectStatus     `gorm:"not null;index" json:"status"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`

	// Relationships
	Owner         User                 `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Applications  []Application        `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Permissions   []ReviewerPermission `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tasks         []Task               `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	OpenPositions []OpenPosition       `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
