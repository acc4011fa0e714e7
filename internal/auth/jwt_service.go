package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims represents the claims embedded in issued JWTs. The registered subject carries the
// username; UserID is optional and lets verifiers resolve the user without a name lookup.
type Claims struct {
	UserID string    `json:"uid,omitempty"`
	Kind   TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// Payload holds the values signed into a token.
type Payload struct {
	Subject   string
	UserID    string
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 tokens. It performs no time checks; expiry is the
// caller's concern so that malformed, forged and expired tokens stay distinguishable.
type TokenCodec struct {
	secret []byte
	issuer string
}

// NewTokenCodec constructs a codec bound to a single symmetric key.
func NewTokenCodec(secret, issuer string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}
	return &TokenCodec{secret: []byte(secret), issuer: issuer}, nil
}

// Sign serialises the payload into a compact, signed token.
func (c *TokenCodec) Sign(p Payload) (string, error) {
	if p.Subject == "" {
		return "", errors.New("jwt: subject is required")
	}
	if p.ExpiresAt.IsZero() {
		return "", errors.New("jwt: expiry is required")
	}
	kind := p.Kind
	if kind == "" {
		kind = KindAccess
	}

	claims := &Claims{
		UserID: p.UserID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    c.issuer,
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(p.IssuedAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and decodes the claims. It returns ErrMalformed or
// ErrSignatureInvalid on failure.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token string is empty", ErrMalformed)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(tokenString, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrMalformed)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry claim", ErrMalformed)
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrMalformed, claims.Issuer)
	}
	if claims.Kind == "" {
		claims.Kind = KindAccess
	}

	return &claims, nil
}

func classifyParseError(tokenString string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenMalformed) && onlySignatureDamaged(tokenString):
		// The signature segment failed to decode while header and claims are intact.
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// onlySignatureDamaged reports whether header and claims decode cleanly, so the
// failure lies in the signature segment. Everything after the second dot is
// signature, including any stray dots.
func onlySignatureDamaged(tokenString string) bool {
	parts := strings.SplitN(tokenString, ".", 3)
	if len(parts) != 3 {
		return false
	}

	enc := base64.RawURLEncoding.Strict()

	headerJSON, err := enc.DecodeString(parts[0])
	if err != nil {
		return false
	}
	var header map[string]any
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return false
	}

	claimsJSON, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}
	var claims Claims
	return json.Unmarshal(claimsJSON, &claims) == nil
}
