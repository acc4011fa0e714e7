package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

// Evaluator decides whether a principal may perform an action on a resource. The principal is
// always passed explicitly; the evaluator holds no per-request state.
type Evaluator struct {
	resources ResourceGateway
	log       *zap.Logger
}

// NewEvaluator constructs an evaluator backed by the provided resource gateway.
func NewEvaluator(resources ResourceGateway) (*Evaluator, error) {
	if resources == nil {
		return nil, errors.New("permission evaluator: resource gateway is required")
	}
	return &Evaluator{resources: resources, log: logger.WithModule("permissions")}, nil
}

// IsAdmin reports whether the principal holds the admin role.
func IsAdmin(p auth.Principal) bool { return p.IsAdmin() }

// IsTeacher reports whether the principal holds teacher privileges or higher.
func IsTeacher(p auth.Principal) bool { return p.IsTeacher() }

// IsStudent reports whether the principal holds student visibility or higher.
func IsStudent(p auth.Principal) bool { return p.IsStudent() }

// Evaluate runs the rule registered for actionID against resourceID.
func (e *Evaluator) Evaluate(ctx context.Context, p auth.Principal, actionID, resourceID string) (Decision, error) {
	action, ok := Get(strings.TrimSpace(actionID))
	if !ok {
		return Deny, fmt.Errorf("%w %q", ErrUnknownAction, actionID)
	}

	decision, err := action.Rule(e, ctx, p, resourceID)
	e.log.Debug("permission evaluated",
		zap.String("action", action.ID),
		zap.String("user_id", p.ID),
		zap.String("resource_id", resourceID),
		zap.Stringer("decision", decision),
	)
	return decision, err
}

// CanAccessAssignment allows teachers and admins, and students once the assignment is published.
func (e *Evaluator) CanAccessAssignment(ctx context.Context, p auth.Principal, assignmentID string) (Decision, error) {
	assignment, miss, err := e.assignment(ctx, assignmentID)
	if assignment == nil {
		return miss, err
	}
	return decide(accessAssignment(p, assignment)), nil
}

// CanModifyAssignment allows admins and the teacher who created the assignment.
func (e *Evaluator) CanModifyAssignment(ctx context.Context, p auth.Principal, assignmentID string) (Decision, error) {
	assignment, miss, err := e.assignment(ctx, assignmentID)
	if assignment == nil {
		return miss, err
	}
	return decide(modifyAssignment(p, assignment)), nil
}

// CanAccessSubmission allows teachers and admins, and the student who submitted.
func (e *Evaluator) CanAccessSubmission(ctx context.Context, p auth.Principal, submissionID string) (Decision, error) {
	submission, miss, err := e.submission(ctx, submissionID)
	if submission == nil {
		return miss, err
	}
	return decide(p.IsTeacher() || submission.StudentID == p.ID), nil
}

// CanGradeSubmission allows admins and the teacher who created the owning assignment.
func (e *Evaluator) CanGradeSubmission(ctx context.Context, p auth.Principal, submissionID string) (Decision, error) {
	submission, miss, err := e.submission(ctx, submissionID)
	if submission == nil {
		return miss, err
	}
	if p.IsAdmin() {
		return Allow, nil
	}
	if !p.IsTeacher() {
		return Deny, nil
	}
	return e.delegate(ctx, submission.AssignmentID, modifyAssignment, p)
}

// CanDeleteSubmission allows admins and the student who submitted.
func (e *Evaluator) CanDeleteSubmission(ctx context.Context, p auth.Principal, submissionID string) (Decision, error) {
	submission, miss, err := e.submission(ctx, submissionID)
	if submission == nil {
		return miss, err
	}
	return decide(p.IsAdmin() || (p.IsStudent() && submission.StudentID == p.ID)), nil
}

// CanAccessFile allows admins and the uploader; otherwise access follows the owning assignment.
func (e *Evaluator) CanAccessFile(ctx context.Context, p auth.Principal, fileID string) (Decision, error) {
	return e.fileRule(ctx, p, fileID, accessAssignment)
}

// CanDeleteFile allows admins and the uploader; otherwise deletion follows the right to modify
// the owning assignment.
func (e *Evaluator) CanDeleteFile(ctx context.Context, p auth.Principal, fileID string) (Decision, error) {
	return e.fileRule(ctx, p, fileID, modifyAssignment)
}

func (e *Evaluator) fileRule(ctx context.Context, p auth.Principal, fileID string, rule assignmentRule) (Decision, error) {
	file, miss, err := e.file(ctx, fileID)
	if file == nil {
		return miss, err
	}
	if p.IsAdmin() || (file.UploadedBy != "" && file.UploadedBy == p.ID) {
		return Allow, nil
	}
	if file.AssignmentID == nil || *file.AssignmentID == "" {
		return Deny, nil
	}
	return e.delegate(ctx, *file.AssignmentID, rule, p)
}

type assignmentRule func(auth.Principal, *AssignmentDescriptor) bool

func accessAssignment(p auth.Principal, a *AssignmentDescriptor) bool {
	return p.IsTeacher() || a.Status == StatusPublished
}

func modifyAssignment(p auth.Principal, a *AssignmentDescriptor) bool {
	return p.IsAdmin() || (p.IsTeacher() && a.CreatorID == p.ID)
}

// delegate applies an assignment rule on behalf of a resource that exists. A missing owning
// assignment therefore denies instead of reporting NotFound.
func (e *Evaluator) delegate(ctx context.Context, assignmentID string, rule assignmentRule, p auth.Principal) (Decision, error) {
	assignment, miss, err := e.assignment(ctx, assignmentID)
	if assignment == nil {
		if miss == NotFound {
			return Deny, nil
		}
		return miss, err
	}
	return decide(rule(p, assignment)), nil
}

func (e *Evaluator) assignment(ctx context.Context, id string) (*AssignmentDescriptor, Decision, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NotFound, nil
	}
	assignment, err := e.resources.FindAssignment(ctx, id)
	return lookupResult(assignment, err, "assignment")
}

func (e *Evaluator) submission(ctx context.Context, id string) (*SubmissionDescriptor, Decision, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NotFound, nil
	}
	submission, err := e.resources.FindSubmission(ctx, id)
	return lookupResult(submission, err, "submission")
}

func (e *Evaluator) file(ctx context.Context, id string) (*FileDescriptor, Decision, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NotFound, nil
	}
	file, err := e.resources.FindFile(ctx, id)
	return lookupResult(file, err, "file")
}

func lookupResult[T any](resource *T, err error, kind string) (*T, Decision, error) {
	switch {
	case errors.Is(err, ErrResourceNotFound):
		return nil, NotFound, nil
	case err != nil:
		return nil, Deny, fmt.Errorf("permission evaluator: load %s: %w", kind, err)
	case resource == nil:
		return nil, NotFound, nil
	default:
		return resource, Allow, nil
	}
}
