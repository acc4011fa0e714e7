package auth

import "errors"

// Token failures. Each is a distinct, client-triggerable outcome.
var (
	// ErrMalformed is returned when a token cannot be parsed into its segments and claims.
	ErrMalformed = errors.New("token: malformed")
	// ErrSignatureInvalid is returned when the signature does not match the signing key.
	ErrSignatureInvalid = errors.New("token: signature invalid")
	// ErrExpired is returned for correctly signed tokens past their expiry.
	ErrExpired = errors.New("token: expired")
	// ErrSubjectMismatch is returned when a valid token belongs to a different principal.
	ErrSubjectMismatch = errors.New("token: subject mismatch")
)

// Authentication flow failures.
var (
	// ErrDuplicateUsername signals that registration hit an existing username.
	ErrDuplicateUsername = errors.New("auth: username already exists")
	// ErrDuplicateEmail signals that registration hit an existing email address.
	ErrDuplicateEmail = errors.New("auth: email already exists")
	// ErrInvalidCredentials covers both unknown identities and wrong passwords.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountDisabled signals that the user exists but has been deactivated.
	ErrAccountDisabled = errors.New("auth: account disabled")
	// ErrUserNotFound is returned when a refresh token names a user that no longer exists.
	ErrUserNotFound = errors.New("auth: user not found")
	// ErrRefreshInvalid wraps every reason a refresh token was rejected.
	ErrRefreshInvalid = errors.New("auth: refresh token invalid")
)

// ErrIdentityNotFound is returned by IdentityGateway lookups that match no user.
var ErrIdentityNotFound = errors.New("identity: not found")
