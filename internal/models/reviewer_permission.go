package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

// ReviewerPermission is an append-only grant of application-review authority.
// Revocation flips the status and stamps revoked_at; rows are never deleted.
type ReviewerPermission struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID              `gorm:"type:uuid;not null;index" json:"project_id"`
	ReviewerID uuid.UUID             `gorm:"type:uuid;not null;index" json:"reviewer_id"`
	GrantedBy uuid.UUID              `gorm:"type:uuid;not null" json:"granted_by"`
	Status    types.PermissionStatus `gorm:"not null;index" json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	RevokedAt *time.Time             `json:"revoked_at,omitempty"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (r *ReviewerPermission) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
