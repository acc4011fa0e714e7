package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/api"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	sharedtestutil "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database/testutil"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/crypto"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

// TestSecret is the signing secret used by handler test environments.
const TestSecret = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T          *testing.T
	DB         *gorm.DB
	Router     *gin.Engine
	Config     *app.Config
	Tokens     *iauth.TokenService
	Identities *services.IdentityStore
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg := &app.Config{
		Server:     app.ServerConfig{Port: 8080},
		Monitoring: app.MonitoringConfig{Health: app.HealthConfig{Enabled: true}},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret:     TestSecret,
				Issuer:     "test-suite",
				TTL:        time.Hour,
				RefreshTTL: 24 * time.Hour,
			},
		},
	}
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"

	tokenCfg, err := cfg.Auth.TokenServiceConfig()
	require.NoError(t, err)
	tokens, err := iauth.NewTokenService(tokenCfg)
	require.NoError(t, err)

	identities, err := services.NewIdentityStore(db)
	require.NoError(t, err)
	gate, err := iauth.NewAuthenticationGate(identities, tokens, iauth.GateConfig{})
	require.NoError(t, err)

	router, err := api.NewRouter(db, cfg, gate, identities, middleware.NewMemoryRateStore())
	require.NoError(t, err)

	return &Env{
		T:          t,
		DB:         db,
		Router:     router,
		Config:     cfg,
		Tokens:     tokens,
		Identities: identities,
	}
}

// CreateUser inserts an active user holding roles (STUDENT when none are given).
func (e *Env) CreateUser(username, password string, roles ...iauth.RoleName) *iauth.Principal {
	e.T.Helper()

	hashed, err := crypto.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(e.T, err)

	if len(roles) == 0 {
		roles = []iauth.RoleName{iauth.RoleStudent}
	}
	principal, err := e.Identities.Create(context.Background(), iauth.NewUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashed,
		Roles:        roles,
	})
	require.NoError(e.T, err)
	return principal
}

// TokenFor issues an access token directly, skipping the login endpoint.
func (e *Env) TokenFor(p *iauth.Principal) string {
	e.T.Helper()
	issued, err := e.Tokens.IssueAccessToken(*p)
	require.NoError(e.T, err)
	return issued.Token
}

// TokenPair mirrors the tokens block of auth responses.
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
}

// UserPayload captures the user fields returned from auth endpoints.
type UserPayload struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	PhoneNumber string   `json:"phone_number"`
	IsActive    bool     `json:"is_active"`
	Roles       []string `json:"roles"`
}

// AuthResult bundles the JSON response from register, login and refresh.
type AuthResult struct {
	Tokens TokenPair   `json:"tokens"`
	User   UserPayload `json:"user"`
}

// Login posts credentials to /api/auth/login and fails the test unless a token pair comes back.
func (e *Env) Login(identifier, password string) AuthResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/login", map[string]string{"identifier": identifier, "password": password}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	var result AuthResult
	DecodeInto(e.T, MustSucceed(e.T, w), &result)
	require.NotEmpty(e.T, result.Tokens.AccessToken)
	require.NotEmpty(e.T, result.Tokens.RefreshToken)
	require.Positive(e.T, result.Tokens.ExpiresIn)
	return result
}

// APIResponse is the success/data/error envelope every endpoint writes.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the envelope from a recorded response.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// MustSucceed decodes the envelope, asserts success and returns its data.
func MustSucceed(t *testing.T, w *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	resp := DecodeResponse(t, w)
	require.True(t, resp.Success, w.Body.String())
	return resp.Data
}

// DecodeInto unmarshals an envelope data payload into dest.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	require.NotNil(t, dest)
	require.NoError(t, json.Unmarshal(raw, dest), string(raw))
}

// Request sends body as JSON, with a bearer token when one is given, and records the response.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var payload io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.T, err)
		payload = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, payload)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// ErrorCode returns the error code of a failed response.
func ErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := DecodeResponse(t, w)
	require.False(t, resp.Success, w.Body.String())
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
