package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
)

// ResourceStore loads the ownership projections permission rules are evaluated against.
type ResourceStore struct {
	db *gorm.DB
}

var _ permissions.ResourceGateway = (*ResourceStore)(nil)

// NewResourceStore constructs a ResourceStore instance.
func NewResourceStore(db *gorm.DB) (*ResourceStore, error) {
	if db == nil {
		return nil, errors.New("resource store: db is required")
	}
	return &ResourceStore{db: db}, nil
}

// FindAssignment returns the creator and status of an assignment.
func (s *ResourceStore) FindAssignment(ctx context.Context, id string) (*permissions.AssignmentDescriptor, error) {
	var row models.Assignment
	if err := s.take(ctx, &row, id, "id", "creator_id", "status"); err != nil {
		return nil, err
	}
	return &permissions.AssignmentDescriptor{
		ID:        row.ID,
		CreatorID: row.CreatorID,
		Status:    permissions.AssignmentStatus(row.Status),
	}, nil
}

// FindSubmission returns the submitting student and owning assignment of a submission.
func (s *ResourceStore) FindSubmission(ctx context.Context, id string) (*permissions.SubmissionDescriptor, error) {
	var row models.Submission
	if err := s.take(ctx, &row, id, "id", "student_id", "assignment_id"); err != nil {
		return nil, err
	}
	return &permissions.SubmissionDescriptor{
		ID:           row.ID,
		StudentID:    row.StudentID,
		AssignmentID: row.AssignmentID,
	}, nil
}

// FindFile returns the uploader and optional assignment of a file.
func (s *ResourceStore) FindFile(ctx context.Context, id string) (*permissions.FileDescriptor, error) {
	var row models.AssignmentFile
	if err := s.take(ctx, &row, id, "id", "uploaded_by", "assignment_id"); err != nil {
		return nil, err
	}
	return &permissions.FileDescriptor{
		ID:           row.ID,
		UploadedBy:   row.UploadedBy,
		AssignmentID: row.AssignmentID,
	}, nil
}

func (s *ResourceStore) take(ctx context.Context, dest any, id string, columns ...string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Select(columns).Take(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return permissions.ErrResourceNotFound
	}
	if err != nil {
		return fmt.Errorf("resource store: load %T: %w", dest, err)
	}
	return nil
}
