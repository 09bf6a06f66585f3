package subscription

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
)

type (
	planCtxKey struct{}
	memoCtxKey struct{}
)

// planMemo holds the plan of one request's tenant once it is first needed.
type planMemo struct {
	mu       sync.Mutex
	plan     PlanID
	resolved bool
}

func (m *planMemo) load(resolve func() PlanID) PlanID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.resolved {
		m.plan, m.resolved = resolve(), true
	}
	return m.plan
}

func (m *planMemo) get() (PlanID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plan, m.resolved
}

// WithPlan caches the resolved plan in the request scope.
func WithPlan(ctx context.Context, plan PlanID) context.Context {
	return context.WithValue(ctx, planCtxKey{}, plan)
}

// PlanFromContext returns the plan already resolved for the request. It
// never triggers a lookup.
func PlanFromContext(ctx context.Context) (PlanID, bool) {
	if ctx == nil {
		return "", false
	}
	if plan, ok := ctx.Value(planCtxKey{}).(PlanID); ok {
		return plan, true
	}
	if m := memoFromContext(ctx); m != nil {
		return m.get()
	}
	return "", false
}

func memoFromContext(ctx context.Context) *planMemo {
	m, _ := ctx.Value(memoCtxKey{}).(*planMemo)
	return m
}

// Middleware scopes plan resolution to the request: the first lookup fixes
// the plan and every later check in the request sees the same one. Nothing
// is read until a check asks for it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := context.WithValue(req.Context(), memoCtxKey{}, &planMemo{})
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// LoggerExtractor adds the "plan" attribute once the plan is resolved.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if plan, ok := PlanFromContext(ctx); ok {
			return slog.String("plan", string(plan)), true
		}
		return slog.Attr{}, false
	}
}
