package models

import "time"

// Submission statuses.
const (
	SubmissionStatusSubmitted = "SUBMITTED"
	SubmissionStatusGraded    = "GRADED"
	SubmissionStatusReturned  = "RETURNED"
)

// Submission is a student's answer to an assignment.
type Submission struct {
	BaseModel

	AssignmentID string `gorm:"type:uuid;not null;index" json:"assignment_id"`
	StudentID    string `gorm:"type:uuid;not null;index" json:"student_id"`
	Content      string `gorm:"type:text" json:"content"`
	FilePath     string `json:"file_path,omitempty"`

	Score    *int   `json:"score,omitempty"`
	Feedback string `gorm:"type:text" json:"feedback,omitempty"`
	Status   string `gorm:"size:20;not null;default:'SUBMITTED'" json:"status"`

	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`
	GradedBy    *string    `gorm:"type:uuid" json:"graded_by,omitempty"`

	Assignment *Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
}
