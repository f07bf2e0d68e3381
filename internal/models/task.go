package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/volunhub-dev/volunhub/internal/types"
)

type Task struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"project_id"`
	CreatorID      uuid.UUID          `gorm:"type:uuid;not null" json:"creator_id"`
	Title          string             `gorm:"not null" json:"title"`
	Description    string             `json:"description,omitempty"`
	Status         types.TaskStatus   `gorm:"not null;index" json:"status"`
	Priority       types.TaskPriority `gorm:"not null" json:"priority"`
	AssigneeID     *uuid.UUID         `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	EstimatedHours *int               `json:"estimated_hours,omitempty"`
	ActualHours    *int               `json:"actual_hours,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Assignee *User   `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
