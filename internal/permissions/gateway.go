package permissions

import (
	"context"
	"errors"
)

// ErrResourceNotFound is returned by ResourceGateway lookups that match nothing.
var ErrResourceNotFound = errors.New("permission: resource not found")

// AssignmentDescriptor is the projection of an assignment needed for decisions.
type AssignmentDescriptor struct {
	ID        string
	CreatorID string
	Status    AssignmentStatus
}

// SubmissionDescriptor is the projection of a submission needed for decisions.
type SubmissionDescriptor struct {
	ID           string
	StudentID    string
	AssignmentID string
}

// FileDescriptor is the projection of an uploaded file needed for decisions. AssignmentID is
// nil for files not attached to an assignment.
type FileDescriptor struct {
	ID           string
	UploadedBy   string
	AssignmentID *string
}

// ResourceGateway is the read-only lookup the evaluator fetches descriptors through.
type ResourceGateway interface {
	FindAssignment(ctx context.Context, id string) (*AssignmentDescriptor, error)
	FindSubmission(ctx context.Context, id string) (*SubmissionDescriptor, error)
	FindFile(ctx context.Context, id string) (*FileDescriptor, error)
}
