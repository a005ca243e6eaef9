package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/shared/telemetry"
)

const (
	resumeIDKey     = "resumeId"
	adaptationIDKey = "adaptationId"
)

// SetResumeID tags the request log with the resume being acted on.
func SetResumeID(c *gin.Context, id string) {
	if id != "" {
		c.Set(resumeIDKey, id)
	}
}

// SetAdaptationID tags the request log with the adaptation being acted on.
func SetAdaptationID(c *gin.Context, id string) {
	if id != "" {
		c.Set(adaptationIDKey, id)
	}
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		resumeID, _ := c.Get(resumeIDKey)
		adaptationID, _ := c.Get(adaptationIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":    reqID,
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"status":        status,
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"user_id":       UserIDFromContext(c),
			"user_email":    UserEmailFromContext(c),
			"resume_id":     resumeID,
			"adaptation_id": adaptationID,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
