package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/shared/logger"
)

// Logger returns a gin middleware that logs each request through the
// structured logger. Bundle tokens appear only as path params, never in the
// query string, so the raw path is safe to log.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Errorw("http request", fields...)
		case c.Writer.Status() >= 400:
			log.Warnw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	}
}
