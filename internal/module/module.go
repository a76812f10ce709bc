package module

import (
	"monitoria-system/internal/module/application"
	"monitoria-system/internal/module/edital"
	"monitoria-system/internal/module/period"
	"monitoria-system/internal/module/ping"
	"monitoria-system/internal/module/project"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&ping.ModulePing{},
		&period.ModulePeriod{},
		&project.ModuleProject{},
		&application.ModuleApplication{},
		&edital.ModuleEdital{},
	})
}
