package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware...)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": RequestID(c)})
	})
	return router
}

func get(router *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 2, IdleTimeout: time.Minute})
	router := newRouter(RateLimitMiddleware(limiter))

	assert.Equal(t, http.StatusOK, get(router, "", "").Code)
	assert.Equal(t, http.StatusOK, get(router, "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "", "").Code)
}

func TestClientRateLimiterDefaults(t *testing.T) {
	limiter := NewClientRateLimiter(RateLimiterConfig{BurstSize: 3})

	defaults := DefaultRateLimiterConfig()
	assert.Equal(t, defaults.RequestsPerSecond, limiter.config.RequestsPerSecond)
	assert.Equal(t, 3, limiter.config.BurstSize)
	assert.Equal(t, defaults.IdleTimeout, limiter.config.IdleTimeout)
}

func TestClientRateLimiterCleanup(t *testing.T) {
	current := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	limiter := NewClientRateLimiter(RateLimiterConfig{RequestsPerSecond: 10, BurstSize: 10, IdleTimeout: time.Minute})
	limiter.now = func() time.Time { return current }

	limiter.Allow("10.0.0.1")
	current = current.Add(30 * time.Second)
	limiter.Allow("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	current = current.Add(45 * time.Second)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Equal(t, 1, limiter.Len())
}

func TestInternalAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		sent   string
		status int
	}{
		{"valid key", "secret", "secret", http.StatusOK},
		{"wrong key", "secret", "guess", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"misconfigured", "", "secret", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(InternalAuthMiddleware(tt.key))
			assert.Equal(t, tt.status, get(router, APIKeyHeader, tt.sent).Code)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := newRouter(RequestLogger(zerolog.New(&buf)))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := get(router, "", "")
		require.Equal(t, http.StatusOK, w.Code)

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, id, entry["request_id"])
		assert.Equal(t, "/ping", entry["path"])
		assert.EqualValues(t, 200, entry["status"])
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		w := get(router, RequestIDHeader, "req-42")
		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "req-42", body["requestId"])
	})
}
