package ping

import (
	"log/slog"

	"monitoria-system/internal/global/database"
	"monitoria-system/internal/global/logger"

	"gorm.io/gorm"
)

var (
	log *slog.Logger
	db  *gorm.DB
)

type ModulePing struct{}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
	db = database.DB
}
