package tenant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/logger"
)

// Store looks up the organization bound to a principal. Both methods run
// with the principal attached to ctx so that row-level security applies.
type Store interface {
	// UserOrganizationID calls the get_user_organization_id_helper() RPC.
	UserOrganizationID(ctx context.Context) (uuid.UUID, error)
	// ProfileOrganizationID reads profiles.organization_id of userID.
	ProfileOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}

// Resolver maps principals to their organization.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver returns a Resolver backed by store. A nil logger discards logs.
func NewResolver(store Store, log *slog.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{store: store, logger: log}
}

// ResolveOrganizationID returns the organization of p. ok is false when p
// has no profile or no organization; store failures are logged and reported
// the same way, which leaves the caller on the most restrictive plan.
func (r *Resolver) ResolveOrganizationID(ctx context.Context, p auth.Principal) (uuid.UUID, bool) {
	ctx = auth.WithPrincipal(ctx, p)
	log := r.logger.With(logger.UserID(p.UserID.String()))

	id, err := r.store.UserOrganizationID(ctx)
	switch {
	case err == nil && id != uuid.Nil:
		return id, true
	case err != nil && !errors.Is(err, ErrOrganizationNotFound):
		log.WarnContext(ctx, "organization rpc failed, falling back to profile lookup", logger.Error(err))
	}

	id, err = r.store.ProfileOrganizationID(ctx, p.UserID)
	if err != nil {
		if !errors.Is(err, ErrOrganizationNotFound) {
			log.WarnContext(ctx, "profile organization lookup failed", logger.Error(err))
		}
		return uuid.Nil, false
	}
	return id, id != uuid.Nil
}

// OrganizationID resolves the organization of the request principal. Inside
// Middleware the first call does the lookup and later calls reuse it.
func (r *Resolver) OrganizationID(ctx context.Context) (uuid.UUID, bool) {
	if id, ok := ctx.Value(scopeKey{}).(uuid.UUID); ok {
		return id, id != uuid.Nil
	}
	if m := memoFromContext(ctx); m != nil {
		id := m.load(func() (uuid.UUID, bool) { return r.principalOrganization(ctx) })
		return id, id != uuid.Nil
	}
	return r.principalOrganization(ctx)
}

func (r *Resolver) principalOrganization(ctx context.Context) (uuid.UUID, bool) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return r.ResolveOrganizationID(ctx, p)
}
