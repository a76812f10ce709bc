package period

import (
	"strconv"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("ID 格式错误"))
		return 0, false
	}
	return uint(id), true
}

func CreatePeriod(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建报名期请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Create(c.Request.Context(), a, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

func UpdatePeriod(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新报名期请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Update(c.Request.Context(), a, id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

type currentReq struct {
	Year int        `form:"year" binding:"required"`
	Term model.Term `form:"term" binding:"required"`
}

func CurrentPeriod(c *gin.Context) {
	var req currentReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Current(c.Request.Context(), req.Year, req.Term)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

func GetPeriod(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}
