package test

import (
	"testing"

	"monitoria-system/internal/global/response"

	"github.com/stretchr/testify/require"
)

func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, expected.Code, resp.Code, resp.Msg)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	t.Helper()
	require.Equal(t, int32(200), resp.Code, resp.Msg)
}

// ErrorIs 比较业务错误码
func ErrorIs(t *testing.T, err error, expected *response.Error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, expected, err.Error())
}
