package edital

import (
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/middleware"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleEdital) InitRouter(r *gin.RouterGroup) {
	editalGroup := r.Group("/edital")

	// 系主任无账号，凭令牌访问
	signatureGroup := editalGroup.Group("/signature",
		middleware.RateLimit(limiter, "edital-signature", config.Get().Workflow.SignatureRateLimit, time.Minute))
	{
		signatureGroup.GET("/:token", ResolveToken)
		signatureGroup.POST("/:token", SignByToken)
	}

	authGroup := editalGroup.Group("", middleware.Auth())
	{
		authGroup.GET("/detail/:id", GetEdital)
		authGroup.GET("/file/:id", EditalFile)
	}

	adminGroup := editalGroup.Group("", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/create", CreateEdital)
		adminGroup.PATCH("/update/:id", UpdateEdital)
		adminGroup.POST("/upload/:id", UploadSignedFile)
		adminGroup.POST("/publish/:id", PublishEdital)
		adminGroup.POST("/unpublish/:id", UnpublishEdital)
		adminGroup.POST("/request-signature/:id", RequestSignature)
	}
}
