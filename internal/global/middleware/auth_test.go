package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"monitoria-system/config"
	"monitoria-system/internal/global/actor"
	"monitoria-system/internal/global/jwt"
	"monitoria-system/internal/global/response"
	"monitoria-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		a, _ := actor.FromContext(c)
		response.Success(c, a)
	})
	r.GET("/test", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	config.Get().JWT.AccessSecret = "test-secret"
	student, err := jwt.CreateToken(7, model.RoleStudent)
	require.NoError(t, err)
	admin, err := jwt.CreateToken(1, model.RoleAdmin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		roles  []model.Role
		token  string
		status int
	}{
		{"any role", nil, student, http.StatusOK},
		{"role allowed", []model.Role{model.RoleAdmin}, admin, http.StatusOK},
		{"role denied", []model.Role{model.RoleAdmin}, student, http.StatusForbidden},
		{"missing token", nil, "", http.StatusUnauthorized},
		{"garbage token", nil, "abc.def.ghi", http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := get(newRouter(Auth(c.roles...)), c.token)
			require.Equal(t, c.status, w.Code)
		})
	}
}

func TestRateLimitWithoutRedis(t *testing.T) {
	r := newRouter(RateLimit(nil, "test", 1, time.Minute))
	for range 3 {
		require.Equal(t, http.StatusOK, get(r, "").Code)
	}
}
