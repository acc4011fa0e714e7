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

// CreateAssignmentInput describes the fields accepted when creating an assignment.
type CreateAssignmentInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	MaxScore    *int
}

// AssignmentService manages the assignment lifecycle.
type AssignmentService struct {
	db *gorm.DB
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(db *gorm.DB) (*AssignmentService, error) {
	if db == nil {
		return nil, errors.New("assignment service: db is required")
	}
	return &AssignmentService{db: db}, nil
}

// Create stores a new DRAFT assignment owned by creatorID.
func (s *AssignmentService) Create(ctx context.Context, creatorID string, input CreateAssignmentInput) (*models.Assignment, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}
	if strings.TrimSpace(creatorID) == "" {
		return nil, apperrors.NewBadRequest("creator is required")
	}
	if input.MaxScore != nil && *input.MaxScore <= 0 {
		return nil, apperrors.NewBadRequest("max score must be positive")
	}

	assignment := &models.Assignment{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CreatorID:   creatorID,
		DueDate:     input.DueDate,
		MaxScore:    input.MaxScore,
		Status:      string(permissions.StatusDraft),
	}

	if err := s.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, fmt.Errorf("assignment service: create assignment: %w", err)
	}
	return assignment, nil
}

// Get loads an assignment by identifier.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	ctx = ensureContext(ctx)

	var assignment models.Assignment
	err := s.db.WithContext(ctx).Take(&assignment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("assignment service: get assignment: %w", err)
	}
	return &assignment, nil
}

// statusUpdateAttempts bounds how often UpdateStatus re-reads a row whose status
// changed between the read and the conditional write.
const statusUpdateAttempts = 3

// UpdateStatus moves the assignment to a new status. Backward moves are rejected with
// ErrInvalidStatusTransition; repeating the current status is a no-op. The write only
// applies while the row still holds the status the transition was checked against.
func (s *AssignmentService) UpdateStatus(ctx context.Context, id, status string) (*models.Assignment, error) {
	ctx = ensureContext(ctx)

	target, ok := permissions.ParseAssignmentStatus(status)
	if !ok {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown assignment status %q", status))
	}

	var result *models.Assignment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for attempt := 0; attempt < statusUpdateAttempts; attempt++ {
			var assignment models.Assignment
			if err := tx.Take(&assignment, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAssignmentNotFound
				}
				return fmt.Errorf("assignment service: load assignment: %w", err)
			}

			current := permissions.AssignmentStatus(assignment.Status)
			if !permissions.CanTransition(current, target) {
				return ErrInvalidStatusTransition
			}
			if current == target {
				result = &assignment
				return nil
			}

			res := tx.Model(&models.Assignment{}).
				Where("id = ? AND status = ?", id, string(current)).
				Update("status", string(target))
			if res.Error != nil {
				return fmt.Errorf("assignment service: update status: %w", res.Error)
			}
			if res.RowsAffected == 1 {
				assignment.Status = string(target)
				result = &assignment
				return nil
			}
		}
		return ErrStatusConflict
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
