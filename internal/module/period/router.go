package period

import (
	"monitoria-system/internal/global/middleware"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModulePeriod) InitRouter(r *gin.RouterGroup) {
	periodGroup := r.Group("/period")

	periodGroup.Use(middleware.Auth())
	{
		// 当前开放的报名期
		periodGroup.GET("/current", CurrentPeriod)
		periodGroup.GET("/detail/:id", GetPeriod)
	}

	adminGroup := periodGroup.Group("", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/create", CreatePeriod)
		adminGroup.PATCH("/update/:id", UpdatePeriod)
	}
}
