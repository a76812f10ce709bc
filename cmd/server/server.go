package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/middleware"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/redis"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/sentry"
	"monitoria-system/internal/global/storage"
	"monitoria-system/internal/module"
	"monitoria-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	database.Init()

	if err := redis.Init(); err != nil {
		log.Warn("Redis 不可用，限流关闭", "error", err)
		redis.Client = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tools.PanicOnErr(storage.Init(ctx))

	renderer.Init()
	notify.Init(logger.New("Notify"))

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	defer sentry.Flush(2 * time.Second)
	if p, ok := notify.Default.(*notify.Producer); ok {
		defer func() {
			if err := p.Close(); err != nil {
				log.Error("关闭 Kafka Producer 失败", "error", err)
			}
		}()
	}

	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
