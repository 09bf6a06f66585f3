package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cantera/pkg/requestid"
)

func serve(t *testing.T, header string) (ctxID, respID string) {
	t.Helper()

	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/limits/check", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return ctxID, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates id when header is missing", func(t *testing.T) {
		t.Parallel()
		ctxID, respID := serve(t, "")
		require.NotEmpty(t, ctxID)
		assert.Equal(t, ctxID, respID)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err)
	})

	t.Run("reuses valid incoming id", func(t *testing.T) {
		t.Parallel()
		ctxID, respID := serve(t, "edge-req_42")
		assert.Equal(t, "edge-req_42", ctxID)
		assert.Equal(t, "edge-req_42", respID)
	})

	t.Run("replaces id with forbidden characters", func(t *testing.T) {
		t.Parallel()
		ctxID, _ := serve(t, "bad id;drop")
		assert.NotEqual(t, "bad id;drop", ctxID)
		_, err := uuid.Parse(ctxID)
		assert.NoError(t, err)
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("a", 129)
		ctxID, _ := serve(t, long)
		assert.NotEqual(t, long, ctxID)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
