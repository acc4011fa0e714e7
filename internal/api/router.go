package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/app"
	iauth "github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/handlers"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/middleware"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/permissions"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/services"
)

const (
	globalRateLimit = 300
	authRateLimit   = 20
	rateLimitWindow = time.Minute
)

// NewRouter builds the Gin engine, wires middleware and registers every route.
func NewRouter(db *gorm.DB, cfg *app.Config, gate *iauth.AuthenticationGate, identities *services.IdentityStore, rateStore middleware.RateStore) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if gate == nil {
		return nil, fmt.Errorf("authentication gate must be provided")
	}

	resources, err := services.NewResourceStore(db)
	if err != nil {
		return nil, err
	}
	evaluator, err := permissions.NewEvaluator(resources)
	if err != nil {
		return nil, err
	}
	assignmentSvc, err := services.NewAssignmentService(db)
	if err != nil {
		return nil, err
	}
	submissionSvc, err := services.NewSubmissionService(db)
	if err != nil {
		return nil, err
	}
	fileSvc, err := services.NewFileService(db)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Server.AllowedOrigins...),
		middleware.RateLimit(rateStore, "global", globalRateLimit, rateLimitWindow),
	)

	registerHealthRoutes(r, cfg, db, rateStore)
	registerMonitoringRoutes(r, cfg)

	api := r.Group("/api")
	api.Use(middleware.Auth(gate))

	registerAuthRoutes(r, api, authRouteDeps{
		AuthHandler: handlers.NewAuthHandler(gate, identities),
		RateStore:   rateStore,
	})
	registerAssignmentRoutes(api, handlers.NewAssignmentHandler(assignmentSvc, submissionSvc), evaluator)
	registerSubmissionRoutes(api, handlers.NewSubmissionHandler(submissionSvc), evaluator)
	registerFileRoutes(api, handlers.NewFileHandler(fileSvc, evaluator), evaluator)
	registerPermissionRoutes(api, handlers.NewPermissionHandler(evaluator))

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
