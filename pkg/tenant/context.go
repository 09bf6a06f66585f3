package tenant

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

type (
	scopeKey struct{}
	memoKey  struct{}
)

// memo holds the organization of one request. It is filled by the first
// lookup, so requests rejected before any check never reach the store.
type memo struct {
	mu       sync.Mutex
	id       uuid.UUID
	resolved bool
}

func (m *memo) load(resolve func() (uuid.UUID, bool)) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resolved {
		id, ok := resolve()
		if !ok {
			id = uuid.Nil
		}
		m.id, m.resolved = id, true
	}
	return m.id
}

func (m *memo) get() (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, m.resolved
}

// WithOrganization records the resolved organization of the request.
// uuid.Nil records that the principal has no organization, which is cached
// just like a hit.
func WithOrganization(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, scopeKey{}, id)
}

// OrganizationFromContext returns the organization resolved for the request.
// It never triggers a lookup.
func OrganizationFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, resolved := scopeFromContext(ctx)
	return id, resolved && id != uuid.Nil
}

func scopeFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	if id, ok := ctx.Value(scopeKey{}).(uuid.UUID); ok {
		return id, true
	}
	if m := memoFromContext(ctx); m != nil {
		return m.get()
	}
	return uuid.Nil, false
}

func memoFromContext(ctx context.Context) *memo {
	m, _ := ctx.Value(memoKey{}).(*memo)
	return m
}

// Middleware scopes organization resolution to the request. The lookup runs
// on the first OrganizationID call and its result, hit or miss, is reused by
// every later call in the same request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), memoKey{}, &memo{})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// LoggerExtractor adds "organization_id" to log records of tenant requests.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := OrganizationFromContext(ctx); ok {
			return slog.String("organization_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
