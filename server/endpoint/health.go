package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakmate/component"
)

// HealthChecker returns health reports for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health reports overall and per-component health. Unhealthy answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reports []component.Health
		if checker != nil {
			reports = checker(c.Request.Context())
		}
		status := component.Overall(reports)

		httpStatus := http.StatusOK
		if status == component.StatusUnhealthy {
			httpStatus = http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": reports,
		})
	}
}
