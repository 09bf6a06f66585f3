package subscription

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cantera/pkg/logger"
)

// PlanResolver decides the effective plan of a tenant. An active
// subscription wins over the organization's stored plan; anything invalid
// or unreadable degrades to PlanFree.
type PlanResolver struct {
	tenants       OrganizationResolver
	subscriptions Store
	organizations OrganizationStore
	now           func() time.Time
	logger        *slog.Logger
}

// ResolverOption configures a PlanResolver.
type ResolverOption func(*PlanResolver)

// WithClock overrides the time used to classify subscriptions.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *PlanResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *PlanResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewPlanResolver returns a PlanResolver over the given stores.
func NewPlanResolver(tenants OrganizationResolver, subscriptions Store, organizations OrganizationStore, opts ...ResolverOption) *PlanResolver {
	r := &PlanResolver{
		tenants:       tenants,
		subscriptions: subscriptions,
		organizations: organizations,
		now:           time.Now,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetActiveSubscription returns the organization's most recent subscription,
// or nil when it has none. The record is returned whatever its status;
// IsSubscriptionActive classifies it.
func (r *PlanResolver) GetActiveSubscription(ctx context.Context, organizationID uuid.UUID) (*Subscription, error) {
	sub, err := r.subscriptions.LatestSubscription(ctx, organizationID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetUserPlan returns the plan of the current request's tenant. A plan
// already resolved in the request scope is reused; a request without a
// tenant is on the free plan.
func (r *PlanResolver) GetUserPlan(ctx context.Context) PlanID {
	if plan, ok := PlanFromContext(ctx); ok {
		return plan
	}
	if m := memoFromContext(ctx); m != nil {
		return m.load(func() PlanID { return r.userPlan(ctx) })
	}
	return r.userPlan(ctx)
}

func (r *PlanResolver) userPlan(ctx context.Context) PlanID {
	orgID, ok := r.tenants.OrganizationID(ctx)
	if !ok {
		return PlanFree
	}
	return r.organizationPlan(ctx, orgID)
}

// PlanForOrganization resolves the plan of a known tenant. Inside
// Middleware the request has a single tenant, so the first result is reused.
func (r *PlanResolver) PlanForOrganization(ctx context.Context, organizationID uuid.UUID) PlanID {
	if plan, ok := ctx.Value(planCtxKey{}).(PlanID); ok {
		return plan
	}
	if m := memoFromContext(ctx); m != nil {
		return m.load(func() PlanID { return r.organizationPlan(ctx, organizationID) })
	}
	return r.organizationPlan(ctx, organizationID)
}

func (r *PlanResolver) organizationPlan(ctx context.Context, organizationID uuid.UUID) PlanID {
	log := r.logger.With(logger.OrganizationID(organizationID))

	sub, err := r.GetActiveSubscription(ctx, organizationID)
	switch {
	case err != nil:
		log.WarnContext(ctx, "subscription lookup failed, falling back to organization plan", logger.Error(err))
	case IsSubscriptionActive(sub, r.now()):
		if plan, ok := ParsePlanID(sub.PlanID); ok {
			return plan
		}
		log.WarnContext(ctx, "active subscription has unknown plan", slog.String("plan_id", sub.PlanID))
	}

	raw, err := r.organizations.OrganizationPlan(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, ErrOrganizationNotFound) {
			log.WarnContext(ctx, "organization plan lookup failed, using free plan", logger.Error(err))
		}
		return PlanFree
	}
	if plan, ok := ParsePlanID(raw); ok {
		return plan
	}
	if raw != "" {
		log.WarnContext(ctx, "organization has unknown plan", slog.String("plan_id", raw))
	}
	return PlanFree
}

// HasFeature reports whether the current tenant's plan enables f.
func (r *PlanResolver) HasFeature(ctx context.Context, f Feature) bool {
	return GetPlanLimits(r.GetUserPlan(ctx)).Has(f)
}
