package actor

import (
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

const ContextKey = "actor"

// Actor 已认证的调用方，显式传入每个业务操作
type Actor struct {
	UserID uint       `json:"user_id"`
	Role   model.Role `json:"role"`
}

func Student(userID uint) Actor   { return Actor{UserID: userID, Role: model.RoleStudent} }
func Professor(userID uint) Actor { return Actor{UserID: userID, Role: model.RoleProfessor} }
func Admin(userID uint) Actor     { return Actor{UserID: userID, Role: model.RoleAdmin} }

func (a Actor) IsStudent() bool   { return a.Role == model.RoleStudent }
func (a Actor) IsProfessor() bool { return a.Role == model.RoleProfessor }
func (a Actor) IsAdmin() bool     { return a.Role == model.RoleAdmin }

// Can 查询角色权限表
func (a Actor) Can(op Operation) bool {
	return allowed[op][a.Role]
}

// Require 角色不在权限表内时返回 ErrForbidden
func (a Actor) Require(op Operation) error {
	if !a.Can(op) {
		return response.ErrForbidden.WithTips(string(a.Role) + " 不能执行 " + string(op))
	}
	return nil
}

func FromContext(c *gin.Context) (Actor, bool) {
	v, exists := c.Get(ContextKey)
	if !exists {
		return Actor{}, false
	}
	a, ok := v.(Actor)
	return a, ok
}
