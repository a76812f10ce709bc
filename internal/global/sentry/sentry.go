package sentry

import (
	"fmt"
	"time"

	"monitoria-system/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 带错误码的错误，只有 5xx 会上报
type CodedError interface {
	error
	GetCode() int32
}

// Init 初始化 Sentry SDK
// 未配置 DSN 时直接返回 nil，后续的中间件和上报都会变成空操作
func Init() error {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return nil
	}

	// 采样率未配置时全量采样
	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "monitoria-system@1.0.0",
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Middleware 返回 Sentry Gin 中间件，为每个请求创建 Hub 与事务
// 未启用 Sentry 时返回直接放行的空中间件
func Middleware() gin.HandlerFunc {
	if config.Get().Sentry.Dsn == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给后面的 Recovery 处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 捕获异常并上报到 Sentry
// 只上报服务端错误，业务错误不上报
// 请求信息和当前操作者会作为 scope 一并附带
func CaptureException(c *gin.Context, err error) {
	if config.Get().Sentry.Dsn == "" || !shouldReport(err) {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.Request.URL.Path)
		scope.SetTag("method", c.Request.Method)
		if a, exists := c.Get("actor"); exists {
			scope.SetUser(sentry.User{
				Data: map[string]string{"actor": fmt.Sprintf("%+v", a)},
			})
		}
		hub.CaptureException(err)
	})
}

// shouldReport 带错误码的按 HTTP 状态判断，只有 5xx 上报；其他未知错误一律上报
func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		code := e.GetCode() / 100
		return code >= 500 && code < 600
	}
	return true
}

// Flush 刷新 Sentry 缓冲区，确保所有事件都已发送
// 应在程序退出前调用
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
