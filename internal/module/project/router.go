package project

import (
	"monitoria-system/internal/global/middleware"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/project", middleware.Auth())
	{
		projectGroup.GET("/detail/:id", GetProject)
	}

	ownerGroup := projectGroup.Group("", middleware.Auth(model.RoleProfessor, model.RoleAdmin))
	{
		ownerGroup.POST("/create", CreateProject)
		ownerGroup.PATCH("/update/:id", UpdateProject)
		ownerGroup.POST("/submit/:id", SubmitProject)
		ownerGroup.DELETE("/delete/:id", DeleteProject)
		ownerGroup.GET("/document/:id", SignedDocument)
	}

	professorGroup := projectGroup.Group("", middleware.Auth(model.RoleProfessor))
	{
		professorGroup.POST("/sign/professor/:id", SignAsProfessor)
	}

	adminGroup := projectGroup.Group("", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/approve/:id", ApproveProject)
		adminGroup.POST("/reject/:id", RejectProject)
		adminGroup.POST("/sign/admin/:id", SignAsAdmin)
		adminGroup.PUT("/scholarships/:id", AllocateScholarships)
	}
}
