package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akolanti/kbcurator/internal/config"
	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestIsValidBearerToken(t *testing.T) {
	log := logger_i.NewLogger("test_middleware")
	tests := []struct {
		name   string
		header string
		token  string
		want   bool
	}{
		{"no token configured", "", "", true},
		{"matching token", "Bearer s3cret", "s3cret", true},
		{"missing header", "", "s3cret", false},
		{"wrong scheme", "Basic s3cret", "s3cret", false},
		{"wrong token", "Bearer nope", "s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidBearerToken(tt.header, tt.token, log))
		})
	}
}

func TestWrap(t *testing.T) {
	Init("s3cret")
	defer Init("")

	var seenTrace any
	handler := Wrap(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = r.Context().Value(config.TRACE_ID_KEY)
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("rejects missing bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status/x", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
	})

	t.Run("passes trace through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status/x", nil)
		req.RemoteAddr = "10.0.0.2:1000"
		req.Header.Set("Authorization", "Bearer s3cret")
		req.Header.Set("X-Trace-Id", "trace-123")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "trace-123", rec.Header().Get("X-Trace-Id"))
		assert.Equal(t, "trace-123", seenTrace)
	})

	t.Run("rate limits per ip", func(t *testing.T) {
		codes := map[int]int{}
		for i := 0; i < config.BURST_RATE_LIMIT_PER_SECOND+3; i++ {
			req := httptest.NewRequest(http.MethodGet, "/status/x", nil)
			req.RemoteAddr = "10.0.0.3:1000"
			req.Header.Set("Authorization", "Bearer s3cret")
			rec := httptest.NewRecorder()
			handler(rec, req)
			codes[rec.Code]++
		}
		require.NotZero(t, codes[http.StatusTooManyRequests], fmt.Sprint(codes))
		assert.GreaterOrEqual(t, codes[http.StatusNoContent], config.BURST_RATE_LIMIT_PER_SECOND)
	})
}

func TestIPRateLimiter_DropsIdleClients(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(rate.Limit(1), 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.tracked())

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("c"))
	assert.Equal(t, 1, l.tracked())
}
