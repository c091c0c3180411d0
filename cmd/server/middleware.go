package main

import (
	"time"

	"codeberg.org/echowrite/server/api/rest/generate"
	"codeberg.org/echowrite/server/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// allows the configured origins, or any origin when none are configured
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			requestIDHeader,
			generate.HeaderUsageCount,
			generate.HeaderUsageRemaining,
		},
		MaxAge: 12 * time.Hour,
	}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// attaches a request-scoped logger carrying a request id and logs each completed request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		start := time.Now()
		reqLogger := logger.With("request_id", requestID)

		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		reqLogger.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"user_id", c.GetString("user_id"),
		)
	}
}
