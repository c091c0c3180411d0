package health

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/echowrite/server/internal/logger"
	"github.com/gin-gonic/gin"
)

const (
	serviceName  = "echowrite"
	version      = "1.0.0"
	checkTimeout = 2 * time.Second
)

// returns the server health status, pinging each named dependency
func Handler(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		defer cancel()

		status := http.StatusOK
		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Checks:  make(map[string]string, len(checks)),
		}

		for name, pinger := range checks {
			if err := pinger.Ping(ctx); err != nil {
				logger.Warn("health check failed", "dependency", name, "error", err)

				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable

				continue
			}

			resp.Checks[name] = "ok"
		}

		c.JSON(status, resp)
	}
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
