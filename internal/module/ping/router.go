package ping

import (
	"context"
	"time"

	"monitoria-system/internal/global/redis"
	"monitoria-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"version": version,
		})
	})
	r.GET("/health", Health)
}

// Health 检查数据库与 Redis 连通性，Redis 未配置时视为正常
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "ok", "redis": "disabled"}
	if err := pingDB(ctx); err != nil {
		log.Error("数据库健康检查失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if redis.Client != nil {
		if err := redis.Client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis 健康检查失败", "error", err)
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	response.Success(c, status)
}

func pingDB(ctx context.Context) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
