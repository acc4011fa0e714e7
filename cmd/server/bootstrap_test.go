package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
)

func testConfig() *app.Config {
	cfg := &app.Config{
		Server: app.ServerConfig{Port: 8080, Mode: "test", LogLevel: "info"},
		Database: app.DatabaseConfig{
			Driver: "sqlite",
			DSN:    database.MemoryDSN(uuid.NewString()),
		},
		Auth: app.AuthConfig{JWT: app.JWTSettings{
			Secret:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			Issuer:     "homework-test",
			TTL:        time.Hour,
			RefreshTTL: 24 * time.Hour,
		}},
	}
	cfg.Monitoring.Health.Enabled = true
	return cfg
}

func TestBootstrapRuntime(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	stack, err := bootstrapRuntime(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(zap.NewNop()) })

	require.Equal(t, time.Hour, stack.Tokens.AccessTTL())

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBootstrapRuntimeUsesRedisRateStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Cache.Redis = app.RedisConfig{Enabled: true, Address: mr.Addr()}

	stack, err := bootstrapRuntime(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { stack.Shutdown(zap.NewNop()) })
	require.NotNil(t, stack.Redis)

	w := httptest.NewRecorder()
	stack.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, mr.Keys())
}

func TestInitialiseRateStoreFallsBackWhenRedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, store := initialiseRateStore(app.RedisConfig{Enabled: true, Address: addr}, zap.NewNop())
	require.Nil(t, client)
	require.NotNil(t, store)

	count, _, err := store.Increment(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestBootstrapRuntimeRejectsUnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"

	_, err := bootstrapRuntime(cfg, zap.NewNop())
	require.ErrorContains(t, err, "open database")
}

func TestLoadApplicationConfigMissingPath(t *testing.T) {
	_, err := loadApplicationConfig(filepath.Join(t.TempDir(), "missing"))
	require.ErrorContains(t, err, "does not exist")
}

func TestRunFailsOnInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOMEWORK_AUTH_JWT_SECRET", "")

	err := run(context.Background(), []string{"-config", dir})
	require.ErrorContains(t, err, "invalid configuration")
	require.ErrorContains(t, err, "auth.jwt.secret must be provided")
}

func TestRunCheckOnly(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOMEWORK_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")

	require.NoError(t, run(context.Background(), []string{"-config", dir, "-check"}))
}

func TestRunHelp(t *testing.T) {
	err := run(context.Background(), []string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
}
