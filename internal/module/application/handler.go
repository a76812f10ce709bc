package application

import (
	"fmt"
	"strconv"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"
	"monitoria-system/tools"

	"github.com/gin-gonic/gin"
)

func request(c *gin.Context) (actor.Actor, uint, bool) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return a, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("ID格式错误"))
		return a, 0, false
	}
	return a, uint(id), true
}

func reply(c *gin.Context, data any, err error) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, data)
}

func CreateApplication(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定报名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	app, err := svc.Create(c.Request.Context(), a, req)
	reply(c, app, err)
}

func EvaluateApplication(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req EvaluateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定评分请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	app, err := svc.Evaluate(c.Request.Context(), a, id, req)
	reply(c, app, err)
}

func SelectApplications(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req SelectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定录取请求失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	apps, err := svc.Select(c.Request.Context(), a, id, req)
	reply(c, apps, err)
}

func AcceptApplication(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	app, err := svc.Accept(c.Request.Context(), a, id)
	reply(c, app, err)
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func RejectApplication(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req rejectReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	app, err := svc.Reject(c.Request.Context(), a, id, req.Reason)
	reply(c, app, err)
}

func Ranking(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	apps, err := svc.Ranking(c.Request.Context(), a, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, rankingRows(apps))
}

func ExportRanking(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	data, err := svc.ExportRanking(c.Request.Context(), a, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	tools.SendBytes(c, data, fmt.Sprintf("ranking-projeto-%d.xlsx", id), tools.ExcelContentType)
}

func MyApplications(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	apps, err := svc.Mine(c.Request.Context(), a)
	reply(c, apps, err)
}

func GetApplication(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	app, err := svc.Get(c.Request.Context(), a, id)
	reply(c, app, err)
}
