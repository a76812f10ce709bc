package middleware

import (
	"slices"
	"strings"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/jwt"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Auth 解析 Bearer 令牌并写入 actor，roles 为空时任意已登录角色都可访问
func Auth(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}

		claims, valid := jwt.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
			response.Fail(c, response.ErrForbidden)
			return
		}

		c.Set(actor.ContextKey, actor.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}
