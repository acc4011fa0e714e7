package permissions

import "strings"

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	StatusDraft     AssignmentStatus = "DRAFT"
	StatusPublished AssignmentStatus = "PUBLISHED"
	StatusClosed    AssignmentStatus = "CLOSED"
)

func (s AssignmentStatus) order() int {
	switch s {
	case StatusDraft:
		return 1
	case StatusPublished:
		return 2
	case StatusClosed:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	return s.order() > 0
}

// ParseAssignmentStatus normalises a raw status value.
func ParseAssignmentStatus(raw string) (AssignmentStatus, bool) {
	status := AssignmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return status, status.Valid()
}

// CanTransition reports whether an assignment may move from one status to another. Statuses
// only move forward; repeating the current status is a legal no-op.
func CanTransition(from, to AssignmentStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return to.order() >= from.order()
}
