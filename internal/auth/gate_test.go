package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/crypto"
)

type memoryIdentities struct {
	mu       sync.Mutex
	accounts map[string]*Account
	failWith error
}

func newMemoryIdentities() *memoryIdentities {
	return &memoryIdentities{accounts: make(map[string]*Account)}
}

func (m *memoryIdentities) add(username, email, hash string, active bool, roles ...RoleName) *Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct := &Account{
		Principal: Principal{
			ID:       uuid.NewString(),
			Username: username,
			Email:    email,
			IsActive: active,
			Roles:    NewRoleSet(roles...),
		},
		PasswordHash: hash,
	}
	m.accounts[acct.ID] = acct
	return acct
}

func (m *memoryIdentities) FindByUsernameOrEmail(_ context.Context, identifier string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, acct := range m.accounts {
		if strings.EqualFold(acct.Username, identifier) || strings.EqualFold(acct.Email, identifier) {
			cpy := *acct
			return &cpy, nil
		}
	}
	return nil, ErrIdentityNotFound
}

func (m *memoryIdentities) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	acct, ok := m.accounts[id]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	cpy := *acct
	return &cpy, nil
}

func (m *memoryIdentities) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	acct, err := m.FindByUsernameOrEmail(ctx, username)
	if errors.Is(err, ErrIdentityNotFound) {
		return false, nil
	}
	return err == nil && strings.EqualFold(acct.Username, username), err
}

func (m *memoryIdentities) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	acct, err := m.FindByUsernameOrEmail(ctx, email)
	if errors.Is(err, ErrIdentityNotFound) {
		return false, nil
	}
	return err == nil && strings.EqualFold(acct.Email, email), err
}

func (m *memoryIdentities) Create(_ context.Context, user NewUser) (*Principal, error) {
	acct := m.add(user.Username, user.Email, user.PasswordHash, true, user.Roles...)
	p := acct.Principal
	return &p, nil
}

func (m *memoryIdentities) rename(id, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].Username = username
}

func (m *memoryIdentities) deactivate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[id].IsActive = false
}

func (m *memoryIdentities) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
}

// plainVerifier compares "hash:<password>" strings so tests avoid bcrypt cost.
type plainVerifier struct {
	burns int
}

func (v *plainVerifier) Verify(hash, password string) bool { return hash == "hash:"+password }

func (v *plainVerifier) Burn(string) { v.burns++ }

type gateFixture struct {
	gate       *AuthenticationGate
	identities *memoryIdentities
	verifier   *plainVerifier
	clock      *testClock
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	clock := &testClock{current: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens := newTestTokenService(t, clock)
	identities := newMemoryIdentities()
	verifier := &plainVerifier{}

	gate, err := NewAuthenticationGate(identities, tokens, GateConfig{Verifier: verifier, Logger: zap.NewNop()})
	require.NoError(t, err)

	return &gateFixture{gate: gate, identities: identities, verifier: verifier, clock: clock}
}

func TestNewAuthenticationGateRequiresDependencies(t *testing.T) {
	_, err := NewAuthenticationGate(nil, nil, GateConfig{})
	require.Error(t, err)

	_, err = NewAuthenticationGate(newMemoryIdentities(), nil, GateConfig{})
	require.Error(t, err)
}

func TestRegisterAssignsStudentRoleAndIssuesTokens(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()

	result, err := fx.gate.Register(ctx, RegisterInput{
		Username:     "carol",
		Email:        "Carol@Example.com",
		PasswordHash: "hash:secret",
		Profile:      Profile{FirstName: " Carol ", LastName: "Jones"},
	})
	require.NoError(t, err)
	require.Equal(t, "carol", result.Principal.Username)
	require.Equal(t, "carol@example.com", result.Principal.Email)
	require.True(t, result.Principal.IsActive)
	require.Equal(t, []string{"STUDENT"}, result.Principal.Roles.Names())

	claims, err := fx.gate.Tokens().Validate(result.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "carol", claims.Subject)
	require.Equal(t, result.Principal.ID, claims.UserID)
	require.True(t, result.Tokens.RefreshExpiresAt.After(result.Tokens.AccessExpiresAt))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	fx.identities.add("dave", "dave@example.com", "hash:pw", true, RoleStudent)

	_, err := fx.gate.Register(ctx, RegisterInput{Username: "dave", Email: "dave@example.com", PasswordHash: "hash:pw"})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	_, err = fx.gate.Register(ctx, RegisterInput{Username: "dave2", Email: "dave@example.com", PasswordHash: "hash:pw"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterRequiresFields(t *testing.T) {
	fx := newGateFixture(t)
	_, err := fx.gate.Register(context.Background(), RegisterInput{Username: "erin"})
	require.Error(t, err)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	acct := fx.identities.add("frank", "frank@example.com", "hash:pw", true, RoleTeacher)

	for _, identifier := range []string{"frank", "frank@example.com", " FRANK "} {
		result, err := fx.gate.Login(ctx, identifier, "pw")
		require.NoError(t, err, identifier)
		require.Equal(t, acct.ID, result.Principal.ID)
		require.True(t, fx.gate.Tokens().ValidateForPrincipal(result.Tokens.AccessToken, "frank"))
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	fx.identities.add("gina", "gina@example.com", "hash:pw", true, RoleStudent)

	_, unknownErr := fx.gate.Login(ctx, "nobody", "pw")
	_, wrongErr := fx.gate.Login(ctx, "gina", "wrong")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, unknownErr.Error(), wrongErr.Error())
	require.Equal(t, 1, fx.verifier.burns)
}

func TestLoginDisabledAccountOnlyAfterPasswordMatch(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	fx.identities.add("hank", "hank@example.com", "hash:pw", false, RoleStudent)

	_, err := fx.gate.Login(ctx, "hank", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = fx.gate.Login(ctx, "hank", "pw")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestLoginSurfacesStorageFailure(t *testing.T) {
	fx := newGateFixture(t)
	boom := errors.New("db down")
	fx.identities.failWith = boom

	_, err := fx.gate.Login(context.Background(), "ivy", "pw")
	require.ErrorIs(t, err, boom)
	require.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginWithBcryptVerifier(t *testing.T) {
	clock := &testClock{current: time.Now()}
	identities := newMemoryIdentities()
	gate, err := NewAuthenticationGate(identities, newTestTokenService(t, clock), GateConfig{Logger: zap.NewNop()})
	require.NoError(t, err)

	hash, err := crypto.HashPassword("correct horse")
	require.NoError(t, err)
	identities.add("jill", "jill@example.com", hash, true, RoleStudent)

	_, err = gate.Login(context.Background(), "jill", "correct horse")
	require.NoError(t, err)

	_, err = gate.Login(context.Background(), "jill", "battery staple")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	fx.identities.add("kate", "kate@example.com", "hash:pw", true, RoleStudent)

	login, err := fx.gate.Login(ctx, "kate", "pw")
	require.NoError(t, err)

	fx.clock.Advance(2 * time.Hour)
	_, err = fx.gate.Tokens().Validate(login.Tokens.AccessToken)
	require.ErrorIs(t, err, ErrExpired)

	refreshed, err := fx.gate.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)
	require.True(t, fx.gate.Tokens().ValidateForPrincipal(refreshed.Tokens.AccessToken, "kate"))
}

func TestRefreshRejections(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	acct := fx.identities.add("liam", "liam@example.com", "hash:pw", true, RoleStudent)

	login, err := fx.gate.Login(ctx, "liam", "pw")
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		_, err := fx.gate.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrRefreshInvalid)
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("access token", func(t *testing.T) {
		_, err := fx.gate.Refresh(ctx, login.Tokens.AccessToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)
	})

	t.Run("renamed subject", func(t *testing.T) {
		fx.identities.rename(acct.ID, "liam2")
		defer fx.identities.rename(acct.ID, "liam")

		_, err := fx.gate.Refresh(ctx, login.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)
		require.ErrorIs(t, err, ErrSubjectMismatch)
	})

	t.Run("disabled", func(t *testing.T) {
		fx.identities.deactivate(acct.ID)
		_, err := fx.gate.Refresh(ctx, login.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("deleted", func(t *testing.T) {
		fx.identities.remove(acct.ID)
		_, err := fx.gate.Refresh(ctx, login.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		fx.clock.Advance(25 * time.Hour)
		_, err := fx.gate.Refresh(ctx, login.Tokens.RefreshToken)
		require.ErrorIs(t, err, ErrRefreshInvalid)
		require.ErrorIs(t, err, ErrExpired)
	})
}

func TestAvailabilityChecks(t *testing.T) {
	fx := newGateFixture(t)
	ctx := context.Background()
	fx.identities.add("mia", "mia@example.com", "hash:pw", true, RoleStudent)

	ok, err := fx.gate.IsUsernameAvailable(ctx, "mia")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = fx.gate.IsUsernameAvailable(ctx, "noah")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = fx.gate.IsEmailAvailable(ctx, "MIA@example.com")
	require.NoError(t, err)
	require.False(t, ok)
}
