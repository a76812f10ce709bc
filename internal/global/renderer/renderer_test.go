package renderer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"monitoria-system/config"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/render", r.URL.Path)
		var req renderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		switch req.Template {
		case TemplateEdital:
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7"))
		case "empty":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("unknown template"))
		}
	}))
	defer srv.Close()

	c := New(config.Renderer{BaseURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	pdf, err := c.Render(ctx, TemplateEdital, map[string]any{"number": "001/2025"})
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.7", string(pdf))

	_, err = c.Render(ctx, "missing", nil)
	require.ErrorContains(t, err, "400")

	_, err = c.Render(ctx, "empty", nil)
	require.Error(t, err)
}
