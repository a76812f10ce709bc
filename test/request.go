package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request 构造单个 handler 的测试请求
type Request struct {
	Method string
	Body   any
	Params gin.Params
	Actor  *actor.Actor
}

func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, req Request) (resp response.ResponseBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	var body bytes.Buffer
	if req.Body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(req.Body))
	}
	c.Request = httptest.NewRequest(method, "/test", &body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = req.Params
	if req.Actor != nil {
		c.Set(actor.ContextKey, *req.Actor)
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

func Param(key, value string) gin.Params {
	return gin.Params{{Key: key, Value: value}}
}
