package ping

import (
	"net/http"
	"testing"

	"monitoria-system/internal/global/logger"
	"monitoria-system/test"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	db = test.NewDB(t)
	log = logger.New("Ping")

	resp := test.DoRequest(t, Health, test.Request{Method: http.MethodGet})
	test.NoError(t, resp)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ok", data["database"])
	require.Equal(t, "disabled", data["redis"])
}
