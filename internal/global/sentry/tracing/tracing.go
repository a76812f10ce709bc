// Package tracing 把数据库、Redis 与外部 HTTP 调用挂到当前请求的 Sentry 事务下
package tracing

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// finish 结束 span 并设置状态
// threshold 大于 0 时，耗时低于阈值的 span 标记为不采样，只保留慢操作
// err 非空时状态为 internal_error，错误信息写入 span data
func finish(span *sentry.Span, elapsed, threshold time.Duration, err error) {
	if threshold > 0 && elapsed < threshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
