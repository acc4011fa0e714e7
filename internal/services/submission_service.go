package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
)

// SubmitInput captures a student's answer.
type SubmitInput struct {
	Content  string
	FilePath string
}

// GradeInput captures a teacher's grade.
type GradeInput struct {
	Score    int
	Feedback string
}

// SubmissionService manages submissions and grading.
type SubmissionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(db *gorm.DB) (*SubmissionService, error) {
	if db == nil {
		return nil, errors.New("submission service: db is required")
	}
	return &SubmissionService{db: db, now: time.Now}, nil
}

// Submit records a student's answer to a published assignment.
func (s *SubmissionService) Submit(ctx context.Context, assignmentID, studentID string, input SubmitInput) (*models.Submission, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.Content) == "" && strings.TrimSpace(input.FilePath) == "" {
		return nil, apperrors.NewBadRequest("content or file is required")
	}

	var assignment models.Assignment
	err := s.db.WithContext(ctx).Select("id", "status").Take(&assignment, "id = ?", assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("submission service: load assignment: %w", err)
	}
	if assignment.Status != string(permissions.StatusPublished) {
		return nil, ErrAssignmentNotOpen
	}

	submittedAt := s.now().UTC()
	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		Content:      strings.TrimSpace(input.Content),
		FilePath:     strings.TrimSpace(input.FilePath),
		Status:       models.SubmissionStatusSubmitted,
		SubmittedAt:  &submittedAt,
	}
	if err := s.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, fmt.Errorf("submission service: create submission: %w", err)
	}
	return submission, nil
}

// Get loads a submission by identifier.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	ctx = ensureContext(ctx)

	var submission models.Submission
	err := s.db.WithContext(ctx).Take(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("submission service: get submission: %w", err)
	}
	return &submission, nil
}

// Grade stores the score and feedback. Scores must lie within [0, maxScore] when the owning
// assignment defines a maximum.
func (s *SubmissionService) Grade(ctx context.Context, id, graderID string, input GradeInput) (*models.Submission, error) {
	ctx = ensureContext(ctx)

	if input.Score < 0 {
		return nil, ErrScoreOutOfRange
	}

	var result *models.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submission models.Submission
		if err := tx.Preload("Assignment").Take(&submission, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("submission service: load submission: %w", err)
		}

		if a := submission.Assignment; a != nil && a.MaxScore != nil && input.Score > *a.MaxScore {
			return ErrScoreOutOfRange
		}

		gradedAt := s.now().UTC()
		score := input.Score
		updates := map[string]any{
			"score":     score,
			"feedback":  strings.TrimSpace(input.Feedback),
			"status":    models.SubmissionStatusGraded,
			"graded_at": gradedAt,
			"graded_by": graderID,
		}
		if err := tx.Model(&submission).Updates(updates).Error; err != nil {
			return fmt.Errorf("submission service: grade submission: %w", err)
		}

		submission.Score = &score
		submission.Feedback = strings.TrimSpace(input.Feedback)
		submission.Status = models.SubmissionStatusGraded
		submission.GradedAt = &gradedAt
		submission.GradedBy = &graderID
		submission.Assignment = nil
		result = &submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a submission.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.Submission{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("submission service: delete submission: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}
