package response

import (
	"fmt"
	"log/slog"
	"net/http"

	"monitoria-system/config"
	"monitoria-system/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: 200, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

func Fail(c *gin.Context, err error) {
	e := From(err)
	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.Set(ErrorContextKey, e)
	sentry.CaptureException(c, e)
	c.AbortWithStatusJSON(e.HTTPStatus(), body)
}

// Recovery 在 defer 中调用，把 panic 转成 500 响应
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		slog.Error("panic recovered", "error", err, "path", c.Request.URL.Path)
		Fail(c, ErrInternal.WithOrigin(err))
	}
}
