package redis

import (
	"context"
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/sentry/tracing"

	goredis "github.com/redis/go-redis/v9"
)

var Client *goredis.Client

// Init 未配置 Host 时不连接，限流随之放行
func Init() error {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return nil
	}
	Client = goredis.NewClient(&goredis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if config.Get().Sentry.Dsn != "" {
		Client.AddHook(tracing.NewRedisHook(config.Get().Sentry.Tracing.SlowThreshold))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return Client.Ping(ctx).Err()
}
