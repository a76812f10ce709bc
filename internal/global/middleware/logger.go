package middleware

import (
	"log/slog"
	"time"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Logger 访问日志，附带调用方与业务错误码
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if a, ok := actor.FromContext(c); ok {
			attrs = append(attrs, "user_id", a.UserID, "role", a.Role)
		}
		if v, exists := c.Get(response.ErrorContextKey); exists {
			if e, ok := v.(*response.Error); ok {
				attrs = append(attrs, "code", e.Code, "msg", e.Message)
			}
		}

		if c.Writer.Status() >= 500 {
			log.Error("HTTP Request", attrs...)
			return
		}
		log.Info("HTTP Request", attrs...)
	}
}

// SentryEnrichIP 把客户端 IP 写入 Sentry Scope，需放在 sentry.Middleware 之后
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				scope.SetUser(sentrylib.User{IPAddress: c.ClientIP()})
				scope.SetTag("client_ip", c.ClientIP())
				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
			})
		}
		c.Next()
	}
}
