package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/user-lookup-go/internal/handlers"
	"github.com/serroba/user-lookup-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

// serve runs one request through the middleware and returns the captured metadata.
func serve(t *testing.T, trustProxy bool, req *http.Request) handlers.RequestMeta {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(trustProxy))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	return <-metaChan
}

func newRequest(remoteAddr string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

func TestRequestMeta(t *testing.T) {
	t.Run("uses remote address without port", func(t *testing.T) {
		meta := serve(t, false, newRequest("203.0.113.7:54321", map[string]string{"User-Agent": "TestAgent/1.0"}))

		assert.Equal(t, "203.0.113.7", meta.ClientIP)
		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
	})

	t.Run("strips brackets from ipv6 remote address", func(t *testing.T) {
		meta := serve(t, false, newRequest("[::1]:54321", nil))

		assert.Equal(t, "::1", meta.ClientIP)
	})

	t.Run("ignores forwarding headers from untrusted clients", func(t *testing.T) {
		meta := serve(t, false, newRequest("203.0.113.7:54321", map[string]string{
			"X-Forwarded-For": "192.168.1.1",
			"X-Real-IP":       "10.0.0.1",
		}))

		assert.Equal(t, "203.0.113.7", meta.ClientIP)
	})

	t.Run("takes first X-Forwarded-For entry behind a proxy", func(t *testing.T) {
		meta := serve(t, true, newRequest("10.0.0.2:443", map[string]string{
			"X-Forwarded-For": "192.168.1.1, 10.0.0.1, 172.16.0.1",
		}))

		assert.Equal(t, "192.168.1.1", meta.ClientIP)
	})

	t.Run("falls back to X-Real-IP behind a proxy", func(t *testing.T) {
		meta := serve(t, true, newRequest("10.0.0.2:443", map[string]string{"X-Real-IP": "10.0.0.1"}))

		assert.Equal(t, "10.0.0.1", meta.ClientIP)
	})

	t.Run("falls back to remote address behind a proxy without headers", func(t *testing.T) {
		meta := serve(t, true, newRequest("10.0.0.2:443", nil))

		assert.Equal(t, "10.0.0.2", meta.ClientIP)
	})
}
