package permissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
)

func TestCoreActionsRegistered(t *testing.T) {
	ids := make([]string, 0)
	for _, action := range All() {
		ids = append(ids, action.ID)
	}
	require.Equal(t, []string{
		ActionAssignmentModify,
		ActionAssignmentView,
		ActionFileDelete,
		ActionFileView,
		ActionSubmissionDelete,
		ActionSubmissionGrade,
		ActionSubmissionView,
	}, ids)

	require.Len(t, ByResource("submission"), 3)
	require.Len(t, ByResource("file"), 2)
}

func TestRegisterValidation(t *testing.T) {
	rule := func(*Evaluator, context.Context, auth.Principal, string) (Decision, error) { return Deny, nil }

	require.ErrorIs(t, Register(nil), errNilAction)
	require.ErrorIs(t, Register(&Action{ID: " ", Rule: rule}), errEmptyID)
	require.ErrorIs(t, Register(&Action{ID: "x.y"}), errNilRule)
	require.ErrorIs(t, Register(&Action{ID: ActionFileView, Rule: rule}), errDuplicateID)

	_, ok := Get("x.y")
	require.False(t, ok)
}
