package project

import (
	"strconv"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// request 取出调用方与路径中的项目 ID，失败时已写入响应
func request(c *gin.Context) (actor.Actor, uint, bool) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return a, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID格式错误"))
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

func CreateProject(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建项目请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Create(c.Request.Context(), a, req)
	reply(c, p, err)
}

func UpdateProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新项目请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Update(c.Request.Context(), a, id, req)
	reply(c, p, err)
}

func SubmitProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	p, err := svc.Submit(c.Request.Context(), a, id)
	reply(c, p, err)
}

type signReq struct {
	Signature string `json:"signature" binding:"required"` // base64 签名图片
}

func SignAsProfessor(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req signReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.SignAsProfessor(c.Request.Context(), a, id, req.Signature)
	reply(c, p, err)
}

func SignAsAdmin(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req signReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.SignAsAdmin(c.Request.Context(), a, id, req.Signature)
	reply(c, p, err)
}

func ApproveProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req ApproveInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	p, err := svc.Approve(c.Request.Context(), a, id, req)
	reply(c, p, err)
}

type rejectReq struct {
	Feedback string `json:"feedback"`
}

func RejectProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.Reject(c.Request.Context(), a, id, req.Feedback)
	reply(c, p, err)
}

type allocateReq struct {
	Count *int `json:"count" binding:"required"`
}

func AllocateScholarships(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req allocateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	p, err := svc.AllocateScholarships(c.Request.Context(), a, id, *req.Count)
	reply(c, p, err)
}

func DeleteProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	if err := svc.Delete(c.Request.Context(), a, id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func GetProject(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	p, err := svc.Get(c.Request.Context(), a, id)
	reply(c, p, err)
}

func SignedDocument(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	url, err := svc.SignedDocumentURL(c.Request.Context(), a, id)
	reply(c, gin.H{"url": url}, err)
}
