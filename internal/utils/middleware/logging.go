package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mediaforge/server/internal/utils/logger"
)

// Logging returns a middleware that logs HTTP requests. A request-scoped
// logger carrying the request ID is stored in the request context.
func Logging(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLog := log
		if requestID := GetRequestID(c); requestID != "" {
			reqLog = log.With(zap.String("request_id", requestID))
		}
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), reqLog))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("client_ip", c.ClientIP()),
		}

		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if userAgent := c.Request.UserAgent(); userAgent != "" {
			fields = append(fields, zap.String("user_agent", userAgent))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		msg := "HTTP Request"
		switch {
		case status >= 500:
			reqLog.Error(msg, fields...)
		case status >= 400:
			reqLog.Warn(msg, fields...)
		default:
			reqLog.Info(msg, fields...)
		}
	}
}
