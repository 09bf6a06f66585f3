package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/clientip"
	"github.com/dmitrymomot/cantera/pkg/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("panics without key func", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { ratelimit.Middleware(nil, nil) })
	})

	t.Run("sets headers and throttles", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimit.NewLimiter(newMemoryStore(t, &clock{now: time.Now()}), 2, time.Minute)
		require.NoError(t, err)
		h := ratelimit.Middleware(limiter, func(*http.Request) string { return "k" })(okHandler())

		for _, remaining := range []string{"1", "0"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/limits/check", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, remaining, rec.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/limits/check", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())
	})

	t.Run("fails open on store errors", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimit.NewLimiter(brokenStore{err: assert.AnError}, 1, time.Minute)
		require.NoError(t, err)
		h := ratelimit.Middleware(limiter, func(*http.Request) string { return "k" })(okHandler())

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("empty key skips limiting", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimit.NewLimiter(newMemoryStore(t, &clock{now: time.Now()}), 1, time.Minute)
		require.NoError(t, err)
		h := ratelimit.Middleware(limiter, func(*http.Request) string { return "" })(okHandler())

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("nil limiter is a no-op", func(t *testing.T) {
		t.Parallel()

		h := ratelimit.Middleware(nil, ratelimit.PrincipalKey)(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestKeyFuncs(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "ip:203.0.113.7", ratelimit.RemoteAddr(req))
	assert.Equal(t, "ip:203.0.113.7", ratelimit.PrincipalKey(req))

	authed := req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
	assert.Equal(t, "user:"+userID.String(), ratelimit.PrincipalKey(authed))

	proxied := req.WithContext(clientip.WithContext(req.Context(), "198.51.100.20"))
	assert.Equal(t, "ip:198.51.100.20", ratelimit.RemoteAddr(proxied))

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	bare.RemoteAddr = "unix-socket"
	assert.Empty(t, ratelimit.RemoteAddr(bare))

	short := ratelimit.Composite(
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "b" },
	)
	assert.Equal(t, "a:b", short(req))

	long := ratelimit.Composite(ratelimit.PrincipalKey, func(*http.Request) string { return "/limits/check/with/a/rather/long/path" })
	assert.Len(t, long(authed), 32)

	assert.Empty(t, ratelimit.Composite()(req))
}
