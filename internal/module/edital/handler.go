package edital

import (
	"io"
	"net/http"
	"strconv"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"
	"monitoria-system/tools"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 20 << 20

func request(c *gin.Context) (actor.Actor, uint, bool) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return a, 0, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("公告ID格式错误"))
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

func CreateEdital(c *gin.Context) {
	a, ok := actor.FromContext(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建公告请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	e, err := svc.Create(c.Request.Context(), a, req)
	reply(c, e, err)
}

func UpdateEdital(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新公告请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	e, err := svc.Update(c.Request.Context(), a, id, req)
	reply(c, e, err)
}

func UploadSignedFile(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少文件").WithOrigin(err))
		return
	}
	if fh.Size > maxUploadSize {
		response.Fail(c, response.ErrValidation.WithTips("文件不能超过 20MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if ct := http.DetectContentType(data); ct != tools.PDFContentType {
		response.Fail(c, response.ErrValidation.WithTips("只接受 PDF 文件"))
		return
	}
	e, err := svc.AttachSignedFile(c.Request.Context(), a, id, data, tools.PDFContentType)
	reply(c, e, err)
}

func PublishEdital(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	e, err := svc.Publish(c.Request.Context(), a, id)
	reply(c, e, err)
}

func UnpublishEdital(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	e, err := svc.Unpublish(c.Request.Context(), a, id)
	reply(c, e, err)
}

func GetEdital(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	e, err := svc.Get(c.Request.Context(), a, id)
	reply(c, e, err)
}

func EditalFile(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	url, err := svc.FileURL(c.Request.Context(), a, id)
	reply(c, gin.H{"url": url}, err)
}

func RequestSignature(c *gin.Context) {
	a, id, ok := request(c)
	if !ok {
		return
	}
	var req RequestSignatureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	tok, err := svc.RequestSignature(c.Request.Context(), a, id, req)
	reply(c, tok, err)
}

func ResolveToken(c *gin.Context) {
	view, err := svc.ResolveToken(c.Request.Context(), c.Param("token"))
	reply(c, view, err)
}

type signReq struct {
	Signature string `json:"signature" binding:"required"` // base64 签名图片
	Name      string `json:"name"`
}

func SignByToken(c *gin.Context) {
	var req signReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	e, err := svc.SignByToken(c.Request.Context(), c.Param("token"), req.Signature, req.Name)
	if err != nil {
		log.Warn("令牌签名失败", "error", err, "ip", c.ClientIP())
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"edital_id": e.ID, "chief_signed_at": e.ChiefSignedAt})
}
