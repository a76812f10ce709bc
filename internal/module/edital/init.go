package edital

import (
	"log/slog"

	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/redis"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/storage"
)

var (
	log     *slog.Logger
	svc     *Service
	limiter *redis.Limiter
)

type ModuleEdital struct{}

func (m *ModuleEdital) GetName() string {
	return "Edital"
}

func (m *ModuleEdital) Init() {
	log = logger.New("Edital")
	svc = NewService(database.DB, renderer.Default, storage.Default, notify.Default)
	limiter = redis.NewLimiter(redis.Client, "monitoria:ratelimit")
}
