package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/pg"
	"github.com/dmitrymomot/cantera/pkg/subscription"
	"github.com/dmitrymomot/cantera/pkg/tenant"
)

const (
	defaultRole      = "authenticated"
	organizationCol  = "organization_id"
	dateCol          = "fecha"
	setSessionClaims = `SELECT set_config('request.jwt.claims', $1, true), set_config('role', $2, true)`
)

// roles a principal may assume for the duration of a transaction.
var roles = map[string]bool{
	"anon":          true,
	"authenticated": true,
}

// usageTables maps counted resources to the tables holding their rows.
var usageTables = map[subscription.Resource]Table{
	subscription.ResourceCanteras:   TableCanteras,
	subscription.ResourceClientes:   TableClientes,
	subscription.ResourceProduccion: TableProduccion,
	subscription.ResourceVentas:     TableVentas,
	subscription.ResourceUsuarios:   TableProfiles,
}

// Postgres reads tenants, subscriptions and usage. Every call runs in a
// read-only transaction scoped to the principal in ctx, so row-level
// security sees the same identity as the client would.
type Postgres struct {
	db pg.Beginner
}

// NewPostgres returns a row store on db.
func NewPostgres(db pg.Beginner) *Postgres {
	return &Postgres{db: db}
}

var (
	_ tenant.Store                   = (*Postgres)(nil)
	_ subscription.Store             = (*Postgres)(nil)
	_ subscription.OrganizationStore = (*Postgres)(nil)
	_ limits.UsageCounter            = (*Postgres)(nil)
)

// UserOrganizationID calls the get_user_organization_id_helper() RPC.
func (s *Postgres) UserOrganizationID(ctx context.Context) (uuid.UUID, error) {
	var id *uuid.UUID
	err := s.asPrincipal(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT get_user_organization_id_helper()`).Scan(&id)
	})
	return organizationOrNotFound(id, err)
}

// ProfileOrganizationID reads profiles.organization_id of userID.
func (s *Postgres) ProfileOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id *uuid.UUID
	err := s.asPrincipal(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`SELECT organization_id FROM profiles WHERE id = $1`, userID,
		).Scan(&id)
	})
	return organizationOrNotFound(id, err)
}

// LatestSubscription returns the newest subscription of the organization.
func (s *Postgres) LatestSubscription(ctx context.Context, organizationID uuid.UUID) (*subscription.Subscription, error) {
	var (
		sub    subscription.Subscription
		status string
	)
	err := s.asPrincipal(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			SELECT id, organization_id, plan_id, status, current_period_end, created_at
			FROM subscriptions
			WHERE organization_id = $1
			ORDER BY created_at DESC
			LIMIT 1`, organizationID,
		).Scan(&sub.ID, &sub.OrganizationID, &sub.PlanID, &status, &sub.CurrentPeriodEnd, &sub.CreatedAt)
	})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, err
	}
	sub.Status = subscription.ParseStatus(status)
	return &sub, nil
}

// OrganizationPlan reads organizations.plan.
func (s *Postgres) OrganizationPlan(ctx context.Context, organizationID uuid.UUID) (string, error) {
	var plan *string
	err := s.asPrincipal(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`SELECT plan FROM organizations WHERE id = $1`, organizationID,
		).Scan(&plan)
	})
	if err != nil {
		if pg.IsNotFoundError(err) {
			return "", subscription.ErrOrganizationNotFound
		}
		return "", err
	}
	if plan == nil {
		return "", nil
	}
	return *plan, nil
}

// Count implements limits.UsageCounter. Monthly resources are restricted
// to rows whose fecha falls inside w.
func (s *Postgres) Count(ctx context.Context, organizationID uuid.UUID, r subscription.Resource, w limits.Window) (int64, error) {
	table, ok := usageTables[r]
	if !ok {
		return 0, fmt.Errorf("%w: no table for resource %q", ErrUnknownTable, string(r))
	}
	return s.CountRows(ctx, table, usageFilters(organizationID, w)...)
}

// CountRows returns the number of rows of t visible to the principal that
// match every filter.
func (s *Postgres) CountRows(ctx context.Context, t Table, where ...Filter) (int64, error) {
	query, args, err := countQuery(t, where...)
	if err != nil {
		return 0, err
	}
	var n int64
	err = s.asPrincipal(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, args...).Scan(&n)
	})
	return n, err
}

func usageFilters(organizationID uuid.UUID, w limits.Window) []Filter {
	filters := []Filter{Eq(organizationCol, organizationID)}
	if !w.IsZero() {
		filters = append(filters, Gte(dateCol, w.From), Lt(dateCol, w.To))
	}
	return filters
}

func (s *Postgres) asPrincipal(ctx context.Context, fn func(pgx.Tx) error) error {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.ErrNotAuthenticated
	}
	claims, role, err := sessionClaims(p)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}

	err = pg.InTx(ctx, s.db, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, setSessionClaims, claims, role); err != nil {
			return err
		}
		return fn(tx)
	})
	if err != nil && !pg.IsNotFoundError(err) {
		return errors.Join(ErrQueryFailed, err)
	}
	return err
}

// sessionClaims renders the JWT claims PostgREST would expose through
// request.jwt.claims and picks the database role to assume.
func sessionClaims(p auth.Principal) (string, string, error) {
	claims := make(map[string]any, len(p.Claims)+3)
	for k, v := range p.Claims {
		claims[k] = v
	}
	claims["sub"] = p.UserID.String()
	if p.Email != "" {
		claims["email"] = p.Email
	}

	role := defaultRole
	if roles[p.Role] {
		role = p.Role
	}
	claims["role"] = role

	raw, err := json.Marshal(claims)
	if err != nil {
		return "", "", err
	}
	return string(raw), role, nil
}

func organizationOrNotFound(id *uuid.UUID, err error) (uuid.UUID, error) {
	if err != nil {
		if pg.IsNotFoundError(err) {
			return uuid.Nil, tenant.ErrOrganizationNotFound
		}
		return uuid.Nil, err
	}
	if id == nil || *id == uuid.Nil {
		return uuid.Nil, tenant.ErrOrganizationNotFound
	}
	return *id, nil
}
