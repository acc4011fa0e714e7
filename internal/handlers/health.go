package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/logger"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
)

const (
	healthStatusUp   = "up"
	healthStatusDown = "down"

	probeTimeout = 2 * time.Second
)

// HealthCheck names a dependency probe evaluated by the readiness endpoint.
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

type healthReport struct {
	Success   bool                `json:"success"`
	Status    string              `json:"status"`
	Checks    map[string]string   `json:"checks,omitempty"`
	CheckedAt time.Time           `json:"checked_at"`
	Error     *response.ErrorInfo `json:"error,omitempty"`
}

// Liveness reports that the process is serving requests.
func Liveness() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthReport{Success: true, Status: healthStatusUp, CheckedAt: time.Now().UTC()})
	}
}

// Readiness runs every probe and answers 503 when any of them fails.
func Readiness(checks ...HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := evaluate(requestContext(c), checks)
		if report.Success {
			c.JSON(http.StatusOK, report)
			return
		}

		failed := make(map[string]string)
		for name, state := range report.Checks {
			if state == healthStatusDown {
				failed[name] = state
			}
		}
		unavailable := errors.ErrUnavailable.WithDetails(failed)
		report.Error = &response.ErrorInfo{
			Code:      unavailable.Code,
			Message:   unavailable.Message,
			Details:   unavailable.Details,
			RequestID: c.GetString(response.RequestIDKey),
		}
		c.JSON(unavailable.StatusCode, report)
	}
}

func evaluate(ctx context.Context, checks []HealthCheck) healthReport {
	report := healthReport{
		Success:   true,
		Status:    healthStatusUp,
		Checks:    make(map[string]string, len(checks)),
		CheckedAt: time.Now().UTC(),
	}

	for _, check := range checks {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := check.Probe(probeCtx)
		cancel()

		if err != nil {
			logger.WithModule("health").Warn("readiness probe failed",
				zap.String("check", check.Name),
				zap.Error(err),
			)
			report.Checks[check.Name] = healthStatusDown
			report.Success = false
			report.Status = healthStatusDown
			continue
		}
		report.Checks[check.Name] = healthStatusUp
	}

	return report
}
