package project

import (
	"log/slog"

	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
	"monitoria-system/internal/global/notify"
	"monitoria-system/internal/global/renderer"
	"monitoria-system/internal/global/storage"
)

var (
	log *slog.Logger
	svc *Service
)

type ModuleProject struct{}

func (p *ModuleProject) GetName() string {
	return "Project"
}

func (p *ModuleProject) Init() {
	log = logger.New("Project")
	svc = NewService(database.DB, renderer.Default, storage.Default, notify.Default)
}
