package tracing

import (
	"net/url"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// Resty 为 resty 客户端注册追踪钩子
// 请求前创建 http.client span 并透传 sentry-trace 与 baggage 头，下游服务可以接上同一条链路
// 响应后按状态码设置 span 状态；请求失败时在 OnError 中结束 span
func Resty(client *resty.Client) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		parent := sentry.SpanFromContext(req.Context())
		if parent == nil {
			return nil
		}
		span := parent.StartChild("http.client")
		span.Description = req.Method + " " + sanitizeURL(req.URL)
		span.SetData("http.request.method", req.Method)

		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	// 4xx 与 5xx 都记录为对应的 span 状态
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		span.SetData("http.response.status_code", resp.StatusCode())
		if resp.StatusCode() >= 400 {
			span.Status = sentry.HTTPtoSpanStatus(resp.StatusCode())
		} else {
			span.Status = sentry.SpanStatusOK
		}
		span.Finish()
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		if span := sentry.SpanFromContext(req.Context()); span != nil {
			finish(span, 0, 0, err)
		}
	})
}

// sanitizeURL 去掉查询参数与凭据，只保留 scheme://host/path
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return "unknown"
	}
	out := u.Host + u.Path
	if u.Scheme != "" {
		out = u.Scheme + "://" + out
	}
	if out == "" {
		return "unknown"
	}
	return out
}
