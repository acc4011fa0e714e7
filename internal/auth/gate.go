package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/crypto"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

// PasswordVerifier compares a plaintext password against a stored hash. Burn performs an
// equivalent amount of work for identities that do not exist.
type PasswordVerifier interface {
	Verify(hash, password string) bool
	Burn(password string)
}

type bcryptVerifier struct{}

func (bcryptVerifier) Verify(hash, password string) bool {
	return crypto.VerifyPassword(hash, password)
}

func (bcryptVerifier) Burn(password string) {
	crypto.BurnVerification(password)
}

// GateConfig defines optional collaborators for the AuthenticationGate.
type GateConfig struct {
	Verifier PasswordVerifier
	Logger   *zap.Logger
}

// RegisterInput captures the details required to register a new user. The password must
// already be hashed.
type RegisterInput struct {
	Username     string
	Email        string
	PasswordHash string
	Profile      Profile
}

// AuthResult is returned by every successful register, login and refresh.
type AuthResult struct {
	Principal Principal
	Tokens    TokenPair
}

// AuthenticationGate orchestrates registration, login and token refresh.
type AuthenticationGate struct {
	identities IdentityGateway
	tokens     *TokenService
	verifier   PasswordVerifier
	log        *zap.Logger
}

// NewAuthenticationGate wires the gate to its identity store and token service.
func NewAuthenticationGate(identities IdentityGateway, tokens *TokenService, cfg GateConfig) (*AuthenticationGate, error) {
	if identities == nil {
		return nil, errors.New("auth gate: identity gateway is required")
	}
	if tokens == nil {
		return nil, errors.New("auth gate: token service is required")
	}

	verifier := cfg.Verifier
	if verifier == nil {
		verifier = bcryptVerifier{}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.WithModule("auth")
	}

	return &AuthenticationGate{
		identities: identities,
		tokens:     tokens,
		verifier:   verifier,
		log:        log,
	}, nil
}

// Tokens exposes the token service backing the gate.
func (g *AuthenticationGate) Tokens() *TokenService {
	return g.tokens
}

// Register creates a STUDENT account and returns a fresh token pair for it. Username
// uniqueness is checked before email uniqueness.
func (g *AuthenticationGate) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.PasswordHash == "" {
		return nil, errors.New("auth gate: username, email and password hash are required")
	}

	taken, err := g.identities.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("auth gate: check username: %w", err)
	}
	if taken {
		return nil, ErrDuplicateUsername
	}

	taken, err = g.identities.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth gate: check email: %w", err)
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	principal, err := g.identities.Create(ctx, NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: input.PasswordHash,
		Profile: Profile{
			FirstName:   strings.TrimSpace(input.Profile.FirstName),
			LastName:    strings.TrimSpace(input.Profile.LastName),
			PhoneNumber: strings.TrimSpace(input.Profile.PhoneNumber),
		},
		Roles: []RoleName{DefaultRole},
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("auth gate: create user: %w", err)
	}

	tokens, err := g.tokens.IssuePair(*principal)
	if err != nil {
		return nil, fmt.Errorf("auth gate: issue tokens: %w", err)
	}

	g.log.Info("user registered", zap.String("user_id", principal.ID), zap.String("username", principal.Username))
	return &AuthResult{Principal: *principal, Tokens: tokens}, nil
}

// Login authenticates by username or email. Unknown identities and wrong passwords produce the
// same error; the active flag is only consulted after the password matched.
func (g *AuthenticationGate) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identity := strings.TrimSpace(identifier)
	if identity == "" || password == "" {
		g.verifier.Burn(password)
		return nil, ErrInvalidCredentials
	}

	account, err := g.identities.FindByUsernameOrEmail(ctx, identity)
	if errors.Is(err, ErrIdentityNotFound) {
		g.verifier.Burn(password)
		g.log.Debug("login failed", zap.String("reason", "unknown identity"))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth gate: find user: %w", err)
	}

	if !g.verifier.Verify(account.PasswordHash, password) {
		g.log.Debug("login failed", zap.String("reason", "password mismatch"), zap.String("user_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		g.log.Warn("login rejected for disabled account", zap.String("user_id", account.ID))
		return nil, ErrAccountDisabled
	}

	tokens, err := g.tokens.IssuePair(account.Principal)
	if err != nil {
		return nil, fmt.Errorf("auth gate: issue tokens: %w", err)
	}

	g.log.Info("user logged in", zap.String("user_id", account.ID))
	return &AuthResult{Principal: account.Principal, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Every token-level rejection is
// reported as ErrRefreshInvalid wrapping the underlying cause.
func (g *AuthenticationGate) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := g.tokens.Validate(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRefreshInvalid, err)
	}
	if claims.Kind != KindRefresh {
		return nil, fmt.Errorf("%w: token kind %q cannot be refreshed", ErrRefreshInvalid, claims.Kind)
	}

	principal, err := g.ResolvePrincipal(ctx, claims)
	if err != nil {
		return nil, err
	}

	tokens, err := g.tokens.IssuePair(*principal)
	if err != nil {
		return nil, fmt.Errorf("auth gate: issue tokens: %w", err)
	}

	g.log.Debug("tokens refreshed", zap.String("user_id", principal.ID))
	return &AuthResult{Principal: *principal, Tokens: tokens}, nil
}

// ResolvePrincipal loads the current state of the user a validated token was issued to. The
// stored username must still equal the token subject and the account must be active.
func (g *AuthenticationGate) ResolvePrincipal(ctx context.Context, claims *Claims) (*Principal, error) {
	if claims == nil {
		return nil, fmt.Errorf("%w: missing claims", ErrRefreshInvalid)
	}

	var (
		account *Account
		err     error
	)
	if claims.UserID != "" {
		account, err = g.identities.FindByID(ctx, claims.UserID)
	} else {
		account, err = g.identities.FindByUsernameOrEmail(ctx, claims.Subject)
	}
	if errors.Is(err, ErrIdentityNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth gate: find user: %w", err)
	}

	if account.Username != claims.Subject {
		return nil, fmt.Errorf("%w: %w", ErrRefreshInvalid, ErrSubjectMismatch)
	}
	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	principal := account.Principal
	return &principal, nil
}

// IsUsernameAvailable reports whether no account uses the username.
func (g *AuthenticationGate) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := g.identities.ExistsByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return false, fmt.Errorf("auth gate: check username: %w", err)
	}
	return !taken, nil
}

// IsEmailAvailable reports whether no account uses the email address.
func (g *AuthenticationGate) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := g.identities.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return false, fmt.Errorf("auth gate: check email: %w", err)
	}
	return !taken, nil
}
