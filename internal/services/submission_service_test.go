package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

func TestSubmissionServiceSubmitRequiresPublishedAssignment(t *testing.T) {
	db := newSeededDB(t)
	teacher := mustCreateUser(t, db, "cara", auth.RoleTeacher)
	student := mustCreateUser(t, db, "dan")
	svc, err := NewSubmissionService(db)
	require.NoError(t, err)
	ctx := context.Background()

	draft := mustCreateAssignment(t, db, teacher.ID, "")
	_, err = svc.Submit(ctx, draft.ID, student.ID, SubmitInput{Content: "answer"})
	require.ErrorIs(t, err, ErrAssignmentNotOpen)

	published := mustCreateAssignment(t, db, teacher.ID, "PUBLISHED")
	_, err = svc.Submit(ctx, published.ID, student.ID, SubmitInput{})
	require.Error(t, err)

	submission, err := svc.Submit(ctx, published.ID, student.ID, SubmitInput{Content: " answer "})
	require.NoError(t, err)
	require.Equal(t, "answer", submission.Content)
	require.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
	require.NotNil(t, submission.SubmittedAt)

	_, err = svc.Submit(ctx, "missing", student.ID, SubmitInput{Content: "x"})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmissionServiceGrade(t *testing.T) {
	db := newSeededDB(t)
	teacher := mustCreateUser(t, db, "eve", auth.RoleTeacher)
	student := mustCreateUser(t, db, "finn")
	ctx := context.Background()

	assignments, err := NewAssignmentService(db)
	require.NoError(t, err)
	maxScore := 10
	assignment, err := assignments.Create(ctx, teacher.ID, CreateAssignmentInput{Title: "Quiz", MaxScore: &maxScore})
	require.NoError(t, err)
	_, err = assignments.UpdateStatus(ctx, assignment.ID, "PUBLISHED")
	require.NoError(t, err)

	svc, err := NewSubmissionService(db)
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	submission, err := svc.Submit(ctx, assignment.ID, student.ID, SubmitInput{Content: "42"})
	require.NoError(t, err)

	_, err = svc.Grade(ctx, submission.ID, teacher.ID, GradeInput{Score: 11})
	require.ErrorIs(t, err, ErrScoreOutOfRange)
	_, err = svc.Grade(ctx, submission.ID, teacher.ID, GradeInput{Score: -1})
	require.ErrorIs(t, err, ErrScoreOutOfRange)

	graded, err := svc.Grade(ctx, submission.ID, teacher.ID, GradeInput{Score: 9, Feedback: " good "})
	require.NoError(t, err)
	require.Equal(t, 9, *graded.Score)
	require.Equal(t, "good", graded.Feedback)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.Equal(t, teacher.ID, *graded.GradedBy)

	loaded, err := svc.Get(ctx, submission.ID)
	require.NoError(t, err)
	require.Equal(t, 9, *loaded.Score)
	require.Equal(t, models.SubmissionStatusGraded, loaded.Status)
	require.True(t, loaded.GradedAt.Equal(fixed))

	_, err = svc.Grade(ctx, "missing", teacher.ID, GradeInput{Score: 1})
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmissionServiceDelete(t *testing.T) {
	db := newSeededDB(t)
	teacher := mustCreateUser(t, db, "gail", auth.RoleTeacher)
	student := mustCreateUser(t, db, "hugo")
	ctx := context.Background()

	assignment := mustCreateAssignment(t, db, teacher.ID, "PUBLISHED")
	svc, err := NewSubmissionService(db)
	require.NoError(t, err)
	submission, err := svc.Submit(ctx, assignment.ID, student.ID, SubmitInput{Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, submission.ID))
	require.ErrorIs(t, svc.Delete(ctx, submission.ID), ErrSubmissionNotFound)

	_, err = svc.Get(ctx, submission.ID)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
