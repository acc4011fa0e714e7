package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultAccessTokenTTL defines the fallback validity period for access tokens.
	DefaultAccessTokenTTL = time.Hour
	// DefaultRefreshTokenTTL defines the fallback validity period for refresh tokens.
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// TokenConfig bundles the configuration required to build a TokenService.
type TokenConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Clock           func() time.Time
}

// IssuedToken is a signed token together with the expiry embedded in it.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenPair is returned by every successful register, login and refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService issues and validates access and refresh tokens.
type TokenService struct {
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService constructs a TokenService. Zero TTLs fall back to the defaults. The access
// lifetime must span at least one timestamp tick and the refresh lifetime must exceed it by one.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	codec, err := NewTokenCodec(cfg.Secret, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if accessTTL < jwt.TimePrecision {
		return nil, fmt.Errorf("jwt: access ttl %s must be at least %s", accessTTL, jwt.TimePrecision)
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	if refreshTTL < accessTTL+jwt.TimePrecision {
		return nil, fmt.Errorf("jwt: refresh ttl %s must exceed access ttl %s", refreshTTL, accessTTL)
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}, nil
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken signs a short-lived token for the principal.
func (s *TokenService) IssueAccessToken(p Principal) (IssuedToken, error) {
	return s.issue(p, KindAccess, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token that may only be exchanged for a new pair.
func (s *TokenService) IssueRefreshToken(p Principal) (IssuedToken, error) {
	return s.issue(p, KindRefresh, s.refreshTTL)
}

// IssuePair issues an access and a refresh token from the same clock reading, so the refresh
// token always outlives the access token.
func (s *TokenService) IssuePair(p Principal) (TokenPair, error) {
	now := s.now()

	access, err := s.issueAt(p, KindAccess, now, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issueAt(p, KindRefresh, now, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenType:        "Bearer",
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// Validate verifies the token and rejects it once its expiry is not after the current time.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if !claims.ExpiresAt.Time.After(s.now()) {
		return nil, fmt.Errorf("%w: expired at %s", ErrExpired, claims.ExpiresAt.Time.UTC().Format(time.RFC3339))
	}

	return claims, nil
}

// ValidateSubject validates the token and additionally requires it to belong to username.
func (s *TokenService) ValidateSubject(tokenString, username string) (*Claims, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Subject != username {
		return nil, ErrSubjectMismatch
	}
	return claims, nil
}

// ValidateForPrincipal reports whether the token is valid, unexpired and issued to username.
func (s *TokenService) ValidateForPrincipal(tokenString, username string) bool {
	_, err := s.ValidateSubject(tokenString, username)
	return err == nil
}

func (s *TokenService) issue(p Principal, kind TokenKind, ttl time.Duration) (IssuedToken, error) {
	return s.issueAt(p, kind, s.now(), ttl)
}

func (s *TokenService) issueAt(p Principal, kind TokenKind, now time.Time, ttl time.Duration) (IssuedToken, error) {
	if p.Username == "" {
		return IssuedToken{}, errors.New("jwt: principal username is required")
	}

	expiresAt := now.Add(ttl)
	token, err := s.codec.Sign(Payload{
		Subject:   p.Username,
		UserID:    p.ID,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{Token: token, ExpiresAt: expiresAt.Truncate(jwt.TimePrecision)}, nil
}
