package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database/testutil"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
)

type authFixture struct {
	db        *gorm.DB
	store     *services.IdentityStore
	tokens    *iauth.TokenService
	gate      *iauth.AuthenticationGate
	evaluator *permissions.Evaluator
	now       time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	store, err := services.NewIdentityStore(db)
	require.NoError(t, err)
	resources, err := services.NewResourceStore(db)
	require.NoError(t, err)

	fx := &authFixture{db: db, store: store, now: time.Now()}
	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret:          "middleware-test-secret-of-32-bytes!",
		Issuer:          "homework-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Clock:           func() time.Time { return fx.now },
	})
	require.NoError(t, err)

	gate, err := iauth.NewAuthenticationGate(store, tokens, iauth.GateConfig{})
	require.NoError(t, err)
	evaluator, err := permissions.NewEvaluator(resources)
	require.NoError(t, err)

	fx.tokens = tokens
	fx.gate = gate
	fx.evaluator = evaluator
	return fx
}

func (fx *authFixture) user(t *testing.T, username string, roles ...iauth.RoleName) *iauth.Principal {
	t.Helper()
	if len(roles) == 0 {
		roles = []iauth.RoleName{iauth.RoleStudent}
	}
	principal, err := fx.store.Create(context.Background(), iauth.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Roles:        roles,
	})
	require.NoError(t, err)
	return principal
}

func (fx *authFixture) pair(t *testing.T, p *iauth.Principal) iauth.TokenPair {
	t.Helper()
	pair, err := fx.tokens.IssuePair(*p)
	require.NoError(t, err)
	return pair
}
