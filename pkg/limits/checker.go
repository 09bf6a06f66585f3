package limits

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/cantera/pkg/logger"
	"github.com/dmitrymomot/cantera/pkg/subscription"
)

// Decision is the outcome of a counted check. Max is subscription.Unlimited
// when the plan sets no cap.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Current int64  `json:"current"`
	Max     int64  `json:"max"`
	Reason  string `json:"reason,omitempty"`
}

// Result is the outcome of Check. Counting actions carry a Decision; feature
// actions only set Allowed.
type Result struct {
	Action   Action
	Allowed  bool
	Decision *Decision
}

// MarshalJSON renders counting results as {allowed,current,max,reason?} and
// feature results as {allowed}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Decision != nil {
		return json.Marshal(r.Decision)
	}
	return json.Marshal(struct {
		Allowed bool `json:"allowed"`
	}{r.Allowed})
}

// OrganizationResolver resolves the tenant of the current request.
type OrganizationResolver interface {
	OrganizationID(ctx context.Context) (uuid.UUID, bool)
}

// PlanResolver resolves the effective plan of a tenant.
type PlanResolver interface {
	PlanForOrganization(ctx context.Context, organizationID uuid.UUID) subscription.PlanID
}

// Checker decides whether the current tenant may perform gated actions.
// Every call reads live usage; nothing is cached between requests.
type Checker struct {
	tenants OrganizationResolver
	plans   PlanResolver
	usage   UsageCounter
	now     func() time.Time
	loc     *time.Location
	msg     messages
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Checker.
type Option func(*Checker)

// WithClock overrides the time used to compute monthly windows.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the timezone in which calendar months start.
func WithLocation(loc *time.Location) Option {
	return func(c *Checker) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithLogger sets the logger for decisions and counter failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records every decision in m. A nil m disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Checker) { c.metrics = m }
}

// NewChecker returns a Checker that counts usage through usage.
func NewChecker(tenants OrganizationResolver, plans PlanResolver, usage UsageCounter, opts ...Option) *Checker {
	c := &Checker{
		tenants: tenants,
		plans:   plans,
		usage:   usage,
		now:     time.Now,
		loc:     time.UTC,
		msg:     newMessages(language.Spanish),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CanCreateCantera counts the tenant's canteras against the plan cap.
func (c *Checker) CanCreateCantera(ctx context.Context) (Decision, error) {
	return c.count(ctx, ActionCreateCantera)
}

// CanAddCliente counts the tenant's clients against the plan cap.
func (c *Checker) CanAddCliente(ctx context.Context) (Decision, error) {
	return c.count(ctx, ActionAddCliente)
}

// CanRegisterProduccion counts production entries of the current month.
func (c *Checker) CanRegisterProduccion(ctx context.Context) (Decision, error) {
	return c.count(ctx, ActionRegisterProduccion)
}

// CanRegisterVenta counts sales of the current month.
func (c *Checker) CanRegisterVenta(ctx context.Context) (Decision, error) {
	return c.count(ctx, ActionRegisterVenta)
}

// CanAddUser counts the organization's members against the plan cap.
func (c *Checker) CanAddUser(ctx context.Context) (Decision, error) {
	return c.count(ctx, ActionAddUser)
}

// CanExportPDF reports whether the plan enables PDF export.
func (c *Checker) CanExportPDF(ctx context.Context) bool {
	return c.feature(ctx, ActionExportPDF)
}

// CanExportExcel reports whether the plan enables Excel export.
func (c *Checker) CanExportExcel(ctx context.Context) bool {
	return c.feature(ctx, ActionExportExcel)
}

// Check runs the check for a. It returns ErrInvalidAction for actions
// outside the gated set.
func (c *Checker) Check(ctx context.Context, a Action) (Result, error) {
	var (
		d   Decision
		err error
	)
	switch a {
	case ActionCreateCantera:
		d, err = c.CanCreateCantera(ctx)
	case ActionAddCliente:
		d, err = c.CanAddCliente(ctx)
	case ActionRegisterProduccion:
		d, err = c.CanRegisterProduccion(ctx)
	case ActionRegisterVenta:
		d, err = c.CanRegisterVenta(ctx)
	case ActionAddUser:
		d, err = c.CanAddUser(ctx)
	case ActionExportPDF:
		return Result{Action: a, Allowed: c.CanExportPDF(ctx)}, nil
	case ActionExportExcel:
		return Result{Action: a, Allowed: c.CanExportExcel(ctx)}, nil
	default:
		return Result{}, ErrInvalidAction
	}
	if err != nil {
		return Result{}, err
	}
	return Result{Action: a, Allowed: d.Allowed, Decision: &d}, nil
}

func (c *Checker) count(ctx context.Context, a Action) (Decision, error) {
	start := time.Now()
	res, _ := a.Resource()

	orgID, ok := c.tenants.OrganizationID(ctx)
	if !ok {
		// A lookup cut short by the request deadline is not a tenant-less
		// principal.
		if err := ctx.Err(); err != nil {
			c.metrics.observe(a, string(subscription.PlanFree), outcomeError, time.Since(start))
			return Decision{}, errors.Join(ErrFailedToCountUsage, err)
		}
		c.metrics.observe(a, string(subscription.PlanFree), outcomeDenied, time.Since(start))
		return Decision{Allowed: false, Reason: c.msg.noOrganization()}, nil
	}

	plan := c.planFor(ctx, orgID)
	limit := subscription.GetPlanLimits(plan).Max(res)

	var window Window
	if res.Monthly() {
		window = MonthWindow(c.now(), c.loc)
	}

	current, err := c.usage.Count(ctx, orgID, res, window)
	if err != nil {
		c.metrics.observe(a, string(plan), outcomeError, time.Since(start))
		c.logger.ErrorContext(ctx, "usage count failed",
			logger.Action(string(a)), logger.OrganizationID(orgID.String()), logger.Error(err))
		return Decision{}, errors.Join(ErrFailedToCountUsage, err)
	}

	d := Decision{
		Allowed: subscription.WithinLimit(current, limit),
		Current: current,
		Max:     limit,
	}
	outcome := outcomeAllowed
	if !d.Allowed {
		outcome = outcomeDenied
		d.Reason = c.msg.limitReached(res, limit, plan)
	}

	c.metrics.observe(a, string(plan), outcome, time.Since(start))
	c.logger.DebugContext(ctx, "limit checked",
		logger.Action(string(a)), logger.Plan(string(plan)), logger.Decision(d.Allowed, d.Current, d.Max))
	return d, nil
}

// feature is the hasFeature lookup: a tenant-less request is on the free
// plan, which enables no feature.
func (c *Checker) feature(ctx context.Context, a Action) bool {
	start := time.Now()
	f, _ := a.Feature()

	plan, ok := subscription.PlanFromContext(ctx)
	if !ok {
		plan = subscription.PlanFree
		if orgID, found := c.tenants.OrganizationID(ctx); found {
			plan = c.plans.PlanForOrganization(ctx, orgID)
		}
	}
	allowed := subscription.GetPlanLimits(plan).Has(f)

	outcome := outcomeDenied
	if allowed {
		outcome = outcomeAllowed
	}
	c.metrics.observe(a, string(plan), outcome, time.Since(start))
	return allowed
}

// planFor prefers the plan cached for the request by subscription.Middleware.
func (c *Checker) planFor(ctx context.Context, orgID uuid.UUID) subscription.PlanID {
	if plan, ok := subscription.PlanFromContext(ctx); ok {
		return plan
	}
	return c.plans.PlanForOrganization(ctx, orgID)
}
