package application

import (
	"log/slog"

	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
)

var (
	log *slog.Logger
	svc *Service
)

type ModuleApplication struct{}

func (m *ModuleApplication) GetName() string {
	return "Application"
}

func (m *ModuleApplication) Init() {
	log = logger.New("Application")
	svc = NewService(database.DB, notify.Default)
}
