package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/api"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	Tokens     *iauth.TokenService
	Gate       *iauth.AuthenticationGate
	Identities *services.IdentityStore
	RateStore  middleware.RateStore
	Redis      *redis.Client
	Router     *gin.Engine
}

// bootstrapRuntime initialises the database, the authentication core and the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(log)
		}
	}()

	switch strings.ToLower(strings.TrimSpace(cfg.Server.Mode)) {
	case gin.DebugMode:
		gin.SetMode(gin.DebugMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	tokenCfg, err := cfg.Auth.TokenServiceConfig()
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	stack.Tokens, err = iauth.NewTokenService(tokenCfg)
	if err != nil {
		return nil, fmt.Errorf("initialise token service: %w", err)
	}

	stack.Identities, err = services.NewIdentityStore(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise identity store: %w", err)
	}

	stack.Gate, err = iauth.NewAuthenticationGate(stack.Identities, stack.Tokens, iauth.GateConfig{})
	if err != nil {
		return nil, fmt.Errorf("initialise authentication gate: %w", err)
	}

	stack.Redis, stack.RateStore = initialiseRateStore(cfg.Cache.Redis, log)

	stack.Router, err = api.NewRouter(stack.DB, cfg, stack.Gate, stack.Identities, stack.RateStore)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	log.Info("runtime ready",
		zap.Duration("access_token_ttl", stack.Tokens.AccessTTL()),
		zap.Duration("refresh_token_ttl", stack.Tokens.RefreshTTL()),
	)

	success = true
	return stack, nil
}

// Shutdown releases resources held by the stack.
func (s *runtimeStack) Shutdown(log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
		s.Redis = nil
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
		s.DB = nil
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if err := database.Close(db); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}

// initialiseRateStore prefers a shared Redis store and falls back to process-local counters
// when Redis is disabled or unreachable.
func initialiseRateStore(cfg app.RedisConfig, log *zap.Logger) (*redis.Client, middleware.RateStore) {
	if !cfg.Enabled {
		return nil, middleware.NewMemoryRateStore()
	}

	client, err := middleware.OpenRedis(context.Background(), cfg.Address, cfg.Password, cfg.DB)
	if err != nil {
		log.Warn("redis unavailable, using in-memory rate limiting",
			zap.String("address", cfg.Address),
			zap.Error(err),
		)
		return nil, middleware.NewMemoryRateStore()
	}

	log.Info("rate limiting backed by redis", zap.String("address", cfg.Address))
	return client, middleware.NewRedisRateStore(client)
}
