package models

import "time"

// Assignment is homework published by a teacher.
type Assignment struct {
	BaseModel

	Title       string     `gorm:"not null;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatorID   string     `gorm:"type:uuid;not null;index" json:"creator_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	MaxScore    *int       `json:"max_score,omitempty"`
	Status      string     `gorm:"size:20;not null;default:'DRAFT';index" json:"status"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"-"`
}
