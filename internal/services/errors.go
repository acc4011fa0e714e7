package services

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrAssignmentNotFound indicates the requested assignment does not exist.
	ErrAssignmentNotFound = apperrors.New("ASSIGNMENT_NOT_FOUND", "Assignment not found", http.StatusNotFound)
	// ErrSubmissionNotFound indicates the requested submission does not exist.
	ErrSubmissionNotFound = apperrors.New("SUBMISSION_NOT_FOUND", "Submission not found", http.StatusNotFound)
	// ErrFileNotFound indicates the requested file does not exist.
	ErrFileNotFound = apperrors.New("FILE_NOT_FOUND", "File not found", http.StatusNotFound)
	// ErrInvalidStatusTransition rejects backward assignment status changes.
	ErrInvalidStatusTransition = apperrors.New("ASSIGNMENT_INVALID_TRANSITION", "Assignment status cannot move backwards", http.StatusConflict)
	// ErrStatusConflict reports an assignment whose status kept changing underneath an update.
	ErrStatusConflict = apperrors.New("ASSIGNMENT_STATUS_CONFLICT", "Assignment status changed concurrently, retry the request", http.StatusConflict)
	// ErrAssignmentNotOpen rejects submissions to assignments that are not published.
	ErrAssignmentNotOpen = apperrors.New("ASSIGNMENT_NOT_OPEN", "Assignment is not accepting submissions", http.StatusConflict)
	// ErrScoreOutOfRange rejects grades outside the assignment's score range.
	ErrScoreOutOfRange = apperrors.New("SUBMISSION_SCORE_OUT_OF_RANGE", "Score is outside the allowed range", http.StatusBadRequest)
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}

// uniqueViolationColumn reports which of the candidate columns a uniqueness violation names.
// Vendors mention either the column or the index built from it.
func uniqueViolationColumn(err error, candidates ...string) string {
	var detail string

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil {
		detail = pgErr.ConstraintName + " " + pgErr.Detail
	}
	detail = strings.ToLower(detail + " " + err.Error())

	for _, column := range candidates {
		if strings.Contains(detail, strings.ToLower(column)) {
			return column
		}
	}
	return ""
}
