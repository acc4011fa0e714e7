package handlers

import (
	stdErrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/crypto"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/metrics"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
	appValidator "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/validator"
)

var (
	errUsernameTaken  = errors.NewConflict("USERNAME_TAKEN", "Username already exists")
	errEmailTaken     = errors.NewConflict("EMAIL_TAKEN", "Email already exists")
	errRefreshInvalid = errors.New("REFRESH_INVALID", "Refresh token is invalid or expired", http.StatusUnauthorized)
)

// AuthHandler manages authentication flows (register/login/refresh/me).
type AuthHandler struct {
	gate       *iauth.AuthenticationGate
	identities *services.IdentityStore
}

func NewAuthHandler(gate *iauth.AuthenticationGate, identities *services.IdentityStore) *AuthHandler {
	return &AuthHandler{gate: gate, identities: identities}
}

type registerRequest struct {
	Username    string `json:"username" validate:"required,username"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	FirstName   string `json:"first_name" validate:"max=50"`
	LastName    string `json:"last_name" validate:"max=50"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

type userResponse struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	IsActive    bool     `json:"is_active"`
	Roles       []string `json:"roles"`
}

type authResponse struct {
	Tokens tokenResponse `json:"tokens"`
	User   userResponse  `json:"user"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		return
	}

	hashed, err := crypto.HashPassword(req.Password)
	if stdErrors.Is(err, crypto.ErrPasswordTooLong) {
		metrics.AuthAttempts.WithLabelValues("register", "invalid").Inc()
		response.Error(c, errors.NewValidation("password must be at most 72 bytes", map[string]string{"password": "password must be at most 72 bytes"}))
		return
	}
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		response.Error(c, errors.Wrap(err, "failed to hash password"))
		return
	}

	result, err := h.gate.Register(requestContext(c), iauth.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Profile: iauth.Profile{
			FirstName:   strings.TrimSpace(req.FirstName),
			LastName:    strings.TrimSpace(req.LastName),
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		},
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", authResult(err)).Inc()
		response.Error(c, translateAuthError(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	response.Success(c, http.StatusCreated, h.authPayload(c, result))
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return
	}

	result, err := h.gate.Login(requestContext(c), req.Identifier, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", authResult(err)).Inc()
		response.Error(c, translateAuthError(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	response.Success(c, http.StatusOK, h.authPayload(c, result))
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if !bindAndValidate(c, &req) {
		metrics.AuthAttempts.WithLabelValues("refresh", "invalid").Inc()
		return
	}

	result, err := h.gate.Refresh(requestContext(c), strings.TrimSpace(req.RefreshToken))
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", authResult(err)).Inc()
		response.Error(c, translateAuthError(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("refresh", "success").Inc()
	response.Success(c, http.StatusOK, h.authPayload(c, result))
}

// GET /api/auth/check-username?username=
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		response.Error(c, errors.NewBadRequest("username cannot be empty"))
		return
	}

	available, err := h.gate.IsUsernameAvailable(requestContext(c), username)
	if err != nil {
		response.Error(c, errors.Wrap(err, "failed to check username"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"username": username, "available": available})
}

// GET /api/auth/check-email?email=
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		response.Error(c, errors.NewBadRequest("email cannot be empty"))
		return
	}
	if err := appValidator.ValidateVar(email, "email"); err != nil {
		response.Error(c, errors.NewBadRequest("email must be a valid email address"))
		return
	}

	available, err := h.gate.IsEmailAvailable(requestContext(c), email)
	if err != nil {
		response.Error(c, errors.Wrap(err, "failed to check email"))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": email, "available": available})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.userPayload(c, principal))
}

func (h *AuthHandler) authPayload(c *gin.Context, result *iauth.AuthResult) authResponse {
	tokens := result.Tokens
	return authResponse{
		Tokens: tokenResponse{
			AccessToken:      tokens.AccessToken,
			RefreshToken:     tokens.RefreshToken,
			TokenType:        tokens.TokenType,
			ExpiresIn:        secondsUntil(tokens.AccessExpiresAt, h.gate.Tokens().AccessTTL()),
			RefreshExpiresIn: secondsUntil(tokens.RefreshExpiresAt, h.gate.Tokens().RefreshTTL()),
		},
		User: h.userPayload(c, result.Principal),
	}
}

// userPayload renders the principal, enriched with profile fields when the store has them.
func (h *AuthHandler) userPayload(c *gin.Context, p iauth.Principal) userResponse {
	payload := userResponse{
		ID:       p.ID,
		Username: p.Username,
		Email:    p.Email,
		IsActive: p.IsActive,
		Roles:    p.Roles.Names(),
	}
	if h.identities == nil {
		return payload
	}
	if user, err := h.identities.GetUser(requestContext(c), p.ID); err == nil {
		payload.FirstName = user.FirstName
		payload.LastName = user.LastName
		payload.PhoneNumber = user.PhoneNumber
	}
	return payload
}

func secondsUntil(expiresAt time.Time, fallback time.Duration) int64 {
	remaining := time.Until(expiresAt)
	if remaining <= 0 || remaining > fallback {
		remaining = fallback
	}
	return int64(remaining.Round(time.Second) / time.Second)
}

func translateAuthError(err error) error {
	switch {
	case stdErrors.Is(err, iauth.ErrDuplicateUsername):
		return errUsernameTaken
	case stdErrors.Is(err, iauth.ErrDuplicateEmail):
		return errEmailTaken
	case stdErrors.Is(err, iauth.ErrInvalidCredentials):
		return errors.ErrInvalidCredentials
	case stdErrors.Is(err, iauth.ErrAccountDisabled):
		return errors.ErrAccountDisabled
	case stdErrors.Is(err, iauth.ErrRefreshInvalid), stdErrors.Is(err, iauth.ErrUserNotFound):
		return errRefreshInvalid
	default:
		return errors.Wrap(err, "authentication failed")
	}
}

func authResult(err error) string {
	switch {
	case stdErrors.Is(err, iauth.ErrDuplicateUsername), stdErrors.Is(err, iauth.ErrDuplicateEmail):
		return "conflict"
	case stdErrors.Is(err, iauth.ErrInvalidCredentials):
		return "invalid_credentials"
	case stdErrors.Is(err, iauth.ErrAccountDisabled):
		return "disabled"
	case stdErrors.Is(err, iauth.ErrRefreshInvalid), stdErrors.Is(err, iauth.ErrUserNotFound):
		return "refresh_invalid"
	default:
		return "error"
	}
}
