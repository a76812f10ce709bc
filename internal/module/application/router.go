package application

import (
	"monitoria-system/internal/global/middleware"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleApplication) InitRouter(r *gin.RouterGroup) {
	applicationGroup := r.Group("/application", middleware.Auth())
	{
		applicationGroup.GET("/detail/:id", GetApplication)
	}

	studentGroup := applicationGroup.Group("", middleware.Auth(model.RoleStudent))
	{
		studentGroup.POST("/create", CreateApplication)
		studentGroup.GET("/mine", MyApplications)
		studentGroup.POST("/accept/:id", AcceptApplication)
		studentGroup.POST("/reject/:id", RejectApplication)
	}

	professorGroup := applicationGroup.Group("", middleware.Auth(model.RoleProfessor))
	{
		professorGroup.POST("/evaluate/:id", EvaluateApplication)
		professorGroup.POST("/select/:id", SelectApplications)
	}

	rankingGroup := applicationGroup.Group("/ranking", middleware.Auth(model.RoleProfessor, model.RoleAdmin))
	{
		rankingGroup.GET("/:id", Ranking)
		rankingGroup.GET("/export/:id", ExportRanking)
	}
}
