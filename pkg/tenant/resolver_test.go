package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/cantera/pkg/auth"
	"github.com/dmitrymomot/cantera/pkg/tenant"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) UserOrganizationID(ctx context.Context) (uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockStore) ProfileOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// principalIn matches contexts carrying the given principal.
func principalIn(userID uuid.UUID) any {
	return mock.MatchedBy(func(ctx context.Context) bool {
		p, ok := auth.PrincipalFromContext(ctx)
		return ok && p.UserID == userID
	})
}

func TestResolveOrganizationID(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	orgID := uuid.New()
	storeErr := errors.New("permission denied for function")

	tests := []struct {
		name       string
		rpcID      uuid.UUID
		rpcErr     error
		profileID  uuid.UUID
		profileErr error
		callsProf  bool
		wantID     uuid.UUID
		wantOK     bool
	}{
		{name: "rpc resolves", rpcID: orgID, wantID: orgID, wantOK: true},
		{name: "rpc empty falls back to profile", rpcID: uuid.Nil, profileID: orgID, callsProf: true, wantID: orgID, wantOK: true},
		{name: "rpc not found falls back to profile", rpcErr: tenant.ErrOrganizationNotFound, profileID: orgID, callsProf: true, wantID: orgID, wantOK: true},
		{name: "rpc error falls back to profile", rpcErr: storeErr, profileID: orgID, callsProf: true, wantID: orgID, wantOK: true},
		{name: "no profile", rpcErr: tenant.ErrOrganizationNotFound, profileErr: tenant.ErrOrganizationNotFound, callsProf: true},
		{name: "profile without organization", rpcID: uuid.Nil, profileID: uuid.Nil, callsProf: true},
		{name: "both lookups failing", rpcErr: storeErr, profileErr: storeErr, callsProf: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			store.On("UserOrganizationID", principalIn(userID)).Return(tt.rpcID, tt.rpcErr)
			if tt.callsProf {
				store.On("ProfileOrganizationID", principalIn(userID), userID).Return(tt.profileID, tt.profileErr)
			}

			id, ok := tenant.NewResolver(store, nil).ResolveOrganizationID(context.Background(), auth.Principal{UserID: userID})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			store.AssertExpectations(t)
			if !tt.callsProf {
				store.AssertNotCalled(t, "ProfileOrganizationID", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrganizationIDWithoutPrincipal(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	id, ok := tenant.NewResolver(store, nil).OrganizationID(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
	store.AssertNotCalled(t, "UserOrganizationID", mock.Anything)
}

func TestMiddlewareCachesResolution(t *testing.T) {
	t.Parallel()

	t.Run("hit", func(t *testing.T) {
		t.Parallel()

		userID, orgID := uuid.New(), uuid.New()
		store := &mockStore{}
		store.On("UserOrganizationID", mock.Anything).Return(orgID, nil).Once()
		r := tenant.NewResolver(store, nil)

		var seen []uuid.UUID
		h := tenant.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			for range 3 {
				id, ok := r.OrganizationID(req.Context())
				assert.True(t, ok)
				seen = append(seen, id)
			}
			fromCtx, ok := tenant.OrganizationFromContext(req.Context())
			assert.True(t, ok)
			assert.Equal(t, orgID, fromCtx)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
		h.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, []uuid.UUID{orgID, orgID, orgID}, seen)
		store.AssertExpectations(t)
	})

	t.Run("negative result is cached", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		store := &mockStore{}
		store.On("UserOrganizationID", mock.Anything).Return(uuid.Nil, tenant.ErrOrganizationNotFound).Once()
		store.On("ProfileOrganizationID", mock.Anything, userID).Return(uuid.Nil, tenant.ErrOrganizationNotFound).Once()
		r := tenant.NewResolver(store, nil)

		h := tenant.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, ok := r.OrganizationID(req.Context())
			assert.False(t, ok)
			_, ok = tenant.OrganizationFromContext(req.Context())
			assert.False(t, ok)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
		h.ServeHTTP(httptest.NewRecorder(), req)
		store.AssertExpectations(t)
	})
}

func TestMiddlewareResolvesLazily(t *testing.T) {
	t.Parallel()

	userID, orgID := uuid.New(), uuid.New()
	store := &mockStore{}
	store.On("UserOrganizationID", mock.Anything).Return(orgID, nil).Once()
	r := tenant.NewResolver(store, nil)

	h := tenant.Middleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, ok := tenant.OrganizationFromContext(req.Context())
		assert.False(t, ok, "nothing is resolved until asked")
		store.AssertNotCalled(t, "UserOrganizationID", mock.Anything)

		id, ok := r.OrganizationID(req.Context())
		assert.True(t, ok)
		assert.Equal(t, orgID, id)

		fromCtx, ok := tenant.OrganizationFromContext(req.Context())
		assert.True(t, ok)
		assert.Equal(t, orgID, fromCtx)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithPrincipal(req.Context(), auth.Principal{UserID: userID}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	store.AssertExpectations(t)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenant.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	_, ok = extract(tenant.WithOrganization(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	attr, ok := extract(tenant.WithOrganization(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id.String(), attr.Value.String())
}
