package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// Limiter 固定窗口计数限流
type Limiter struct {
	client *goredis.Client
	script *goredis.Script
	prefix string
}

func NewLimiter(client *goredis.Client, prefix string) *Limiter {
	if client == nil {
		return nil
	}
	return &Limiter{
		client: client,
		script: goredis.NewScript(rateLimitScript),
		prefix: prefix,
	}
}

// Allow Redis 不可用时放行
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{l.prefix + ":" + key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
