package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database/testutil"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithSeedData())
}

func mustCreateUser(t *testing.T, db *gorm.DB, username string, roles ...auth.RoleName) *auth.Principal {
	t.Helper()

	store, err := NewIdentityStore(db)
	require.NoError(t, err)

	if len(roles) == 0 {
		roles = []auth.RoleName{auth.RoleStudent}
	}
	principal, err := store.Create(context.Background(), auth.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Roles:        roles,
	})
	require.NoError(t, err)
	return principal
}

func mustCreateAssignment(t *testing.T, db *gorm.DB, creatorID string, status string) *models.Assignment {
	t.Helper()

	svc, err := NewAssignmentService(db)
	require.NoError(t, err)

	assignment, err := svc.Create(context.Background(), creatorID, CreateAssignmentInput{Title: "Fractions"})
	require.NoError(t, err)

	if status != "" && status != assignment.Status {
		assignment, err = svc.UpdateStatus(context.Background(), assignment.ID, status)
		require.NoError(t, err)
	}
	return assignment
}
