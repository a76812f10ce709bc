package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"
)

// RedisHook 实现 redis.Hook 接口，追踪 Redis 命令
// 命令名作为 span 描述，不记录参数，限流 key 中含有客户端 IP
type RedisHook struct {
	slowThreshold time.Duration
}

// NewRedisHook 创建 Redis 追踪钩子，slowThreshold 为 0 时记录所有命令
func NewRedisHook(slowThreshold time.Duration) *RedisHook {
	return &RedisHook{slowThreshold: slowThreshold}
}

// DialHook 连接建立不追踪，直接透传
func (h *RedisHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

// ProcessHook 追踪单条命令
// redis.Nil 表示 key 不存在，属于正常结果，不记为错误
func (h *RedisHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		parent := sentry.SpanFromContext(ctx)
		if parent == nil {
			return next(ctx, cmd)
		}
		span := parent.StartChild("db.redis")
		span.Description = strings.ToUpper(cmd.Name())
		span.SetData("db.system", "redis")

		start := time.Now()
		err := next(span.Context(), cmd)
		if errors.Is(err, goredis.Nil) {
			finish(span, time.Since(start), h.slowThreshold, nil)
		} else {
			finish(span, time.Since(start), h.slowThreshold, err)
		}
		return err
	}
}

// ProcessPipelineHook 整个管道一个 span，限流脚本走这里
func (h *RedisHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		parent := sentry.SpanFromContext(ctx)
		if parent == nil {
			return next(ctx, cmds)
		}
		span := parent.StartChild("db.redis.pipeline")
		span.Description = pipelineDescription(cmds)
		span.SetData("db.system", "redis")
		span.SetData("redis.pipeline_length", len(cmds))

		start := time.Now()
		err := next(span.Context(), cmds)
		finish(span, time.Since(start), h.slowThreshold, err)
		return err
	}
}

// pipelineDescription 最多列出前三个命令
func pipelineDescription(cmds []goredis.Cmder) string {
	const maxShow = 3
	if len(cmds) == 0 {
		return "PIPELINE (empty)"
	}
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i == maxShow {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > maxShow {
		desc += "..."
	}
	return desc
}
