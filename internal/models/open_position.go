package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

type OpenPosition struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"project_id"`
	Title       string              `gorm:"not null" json:"title"`
	Description string              `json:"description,omitempty"`
	Role        types.VolunteerRole `gorm:"not null" json:"role"`
	IsActive    bool                `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (o *OpenPosition) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
