package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thread is a discussion topic attached to a project. Threads carry flat
// comments, and each comment carries one level of replies; deeper nesting is
// not supported.
type Thread struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"size:10000" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments []Comment `gorm:"foreignKey:ThreadID" json:"comments,omitempty"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body      string    `gorm:"size:10000;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Replies []Reply `gorm:"foreignKey:CommentID" json:"replies,omitempty"`

	// Relationships
	Thread Thread `gorm:"foreignKey:ThreadID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;index" json:"comment_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Body      string    `gorm:"size:10000;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Comment Comment `gorm:"foreignKey:CommentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Author  User    `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
