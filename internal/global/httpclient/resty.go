package httpclient

import (
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

// New 对外部服务的 resty 客户端，5xx 与网络错误重试两次
func New(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if config.Get().Sentry.Tracing.TraceHTTPCalls {
		tracing.Resty(client)
	}
	return client
}
