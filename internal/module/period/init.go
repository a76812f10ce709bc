package period

import (
	"log/slog"

	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"
)

var (
	log *slog.Logger
	svc *Service
)

type ModulePeriod struct{}

func (p *ModulePeriod) GetName() string {
	return "Period"
}

func (p *ModulePeriod) Init() {
	log = logger.New("Period")
	svc = NewService(database.DB)
}
