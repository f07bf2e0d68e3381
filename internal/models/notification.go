package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

// Notification is created by the system for a lifecycle transition and
// mutated only by its recipient (marking read).
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID              `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        types.NotificationType `gorm:"not null" json:"type"`
	Title       string                 `gorm:"not null" json:"title"`
	Message     string                 `gorm:"not null" json:"message"`
	ActionURL   string                 `json:"action_url,omitempty"`
	IsRead      bool                   `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time              `gorm:"index" json:"created_at"`

	// Relationships
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
