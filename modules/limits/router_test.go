package limits_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gate "github.com/dmitrymomot/cantera/modules/limits"
	"github.com/dmitrymomot/cantera/pkg/environment"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/subscription"
)

type staticTenant struct{ id uuid.UUID }

func (s staticTenant) OrganizationID(context.Context) (uuid.UUID, bool) {
	return s.id, s.id != uuid.Nil
}

type staticPlan subscription.PlanID

func (p staticPlan) PlanForOrganization(context.Context, uuid.UUID) subscription.PlanID {
	return subscription.PlanID(p)
}

func (p staticPlan) GetUserPlan(context.Context) subscription.PlanID {
	return subscription.PlanID(p)
}

// countingUsage reports fixed counts and how many lookups ran.
type countingUsage struct {
	counts map[subscription.Resource]int64
	err    error
	calls  atomic.Int64
}

func (c *countingUsage) Count(_ context.Context, _ uuid.UUID, r subscription.Resource, _ limits.Window) (int64, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return c.counts[r], nil
}

func newGate(t *testing.T, plan subscription.PlanID, usage *countingUsage) http.Handler {
	t.Helper()
	checker := limits.NewChecker(staticTenant{id: uuid.New()}, staticPlan(plan), usage)
	return gate.Router(gate.RouterOptions{Checker: checker, Plans: staticPlan(plan)})
}

func postCheck(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCheckEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		plan   subscription.PlanID
		counts map[subscription.Resource]int64
		body   string
		status int
		want   string
		noCall bool
	}{
		{
			name:   "free plan cantera cap reached",
			plan:   subscription.PlanFree,
			counts: map[subscription.Resource]int64{subscription.ResourceCanteras: 1},
			body:   `{"action":"create_cantera"}`,
			status: http.StatusOK,
			want:   `{"allowed":false,"current":1,"max":1,"reason":"Has alcanzado el límite de 1 canteras del plan Free"}`,
		},
		{
			name:   "business is unlimited",
			plan:   subscription.PlanBusiness,
			counts: map[subscription.Resource]int64{subscription.ResourceVentas: 12000},
			body:   `{"action":"register_venta"}`,
			status: http.StatusOK,
			want:   `{"allowed":true,"current":12000,"max":-1}`,
		},
		{
			name:   "export on free plan",
			plan:   subscription.PlanFree,
			body:   `{"action":"export_pdf"}`,
			status: http.StatusOK,
			want:   `{"allowed":false}`,
			noCall: true,
		},
		{
			name:   "export excel on profesional",
			plan:   subscription.PlanProfesional,
			body:   `{"action":"export_excel"}`,
			status: http.StatusOK,
			want:   `{"allowed":true}`,
			noCall: true,
		},
		{
			name:   "unknown action",
			plan:   subscription.PlanBusiness,
			body:   `{"action":"bogus"}`,
			status: http.StatusBadRequest,
			want:   `{"error":"invalid action: bogus"}`,
			noCall: true,
		},
		{
			name:   "missing action",
			plan:   subscription.PlanBusiness,
			body:   `{}`,
			status: http.StatusBadRequest,
			want:   `{"error":"action is required"}`,
			noCall: true,
		},
		{
			name:   "malformed json",
			plan:   subscription.PlanBusiness,
			body:   `{"action":`,
			status: http.StatusBadRequest,
			want:   `{"error":"invalid request body"}`,
			noCall: true,
		},
		{
			name:   "unknown field",
			plan:   subscription.PlanBusiness,
			body:   `{"action":"add_user","force":true}`,
			status: http.StatusBadRequest,
			want:   `{"error":"invalid request body"}`,
			noCall: true,
		},
		{
			name:   "empty body",
			plan:   subscription.PlanBusiness,
			body:   ``,
			status: http.StatusBadRequest,
			want:   `{"error":"invalid request body"}`,
			noCall: true,
		},
		{
			name:   "trailing data",
			plan:   subscription.PlanBusiness,
			body:   `{"action":"add_user"}{"action":"add_user"}`,
			status: http.StatusBadRequest,
			want:   `{"error":"invalid request body"}`,
			noCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			usage := &countingUsage{counts: tt.counts}
			rec := postCheck(newGate(t, tt.plan, usage), tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.JSONEq(t, tt.want, rec.Body.String())
			if tt.noCall {
				assert.Zero(t, usage.calls.Load())
			}
		})
	}
}

func TestCheckEndpointHidesInternalErrors(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{err: errors.New(`relation "canteras" does not exist`)}
	rec := postCheck(newGate(t, subscription.PlanFree, usage), `{"action":"create_cantera"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestCheckEndpointWithoutOrganization(t *testing.T) {
	t.Parallel()

	usage := &countingUsage{}
	checker := limits.NewChecker(staticTenant{}, staticPlan(subscription.PlanBusiness), usage)
	h := gate.Router(gate.RouterOptions{Checker: checker, Plans: staticPlan(subscription.PlanFree)})

	rec := postCheck(h, `{"action":"add_cliente"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["allowed"])
	assert.NotEmpty(t, body["reason"])
	assert.Zero(t, usage.calls.Load())
}

type brokenChecker struct{ failOn limits.Action }

func (b brokenChecker) Check(_ context.Context, a limits.Action) (limits.Result, error) {
	if a == b.failOn {
		return limits.Result{}, limits.ErrFailedToCountUsage
	}
	return limits.Result{Action: a, Allowed: true}, nil
}

func TestDiagnosticsEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("lists every action outside production", func(t *testing.T) {
		t.Parallel()

		usage := &countingUsage{counts: map[subscription.Resource]int64{subscription.ResourceClientes: 20}}
		h := environment.Middleware(environment.Development)(newGate(t, subscription.PlanStarter, usage))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Plan     string                     `json:"plan"`
			PlanName string                     `json:"planName"`
			Limits   subscription.PlanLimits    `json:"limits"`
			Checks   map[string]json.RawMessage `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "starter", body.Plan)
		assert.Equal(t, "Starter", body.PlanName)
		assert.Equal(t, subscription.GetPlanLimits(subscription.PlanStarter), body.Limits)
		assert.Len(t, body.Checks, len(limits.Actions()))
		assert.JSONEq(t, `{"allowed":true,"current":20,"max":50}`, string(body.Checks["add_cliente"]))
		assert.JSONEq(t, `{"allowed":true}`, string(body.Checks["export_pdf"]))
		assert.JSONEq(t, `{"allowed":false}`, string(body.Checks["export_excel"]))
	})

	t.Run("isolates failing checks", func(t *testing.T) {
		t.Parallel()

		h := gate.Router(gate.RouterOptions{
			Checker: brokenChecker{failOn: limits.ActionRegisterVenta},
			Plans:   staticPlan(subscription.PlanFree),
		})

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Checks map[string]json.RawMessage `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.JSONEq(t, `{"error":"check failed"}`, string(body.Checks["register_venta"]))
		assert.JSONEq(t, `{"allowed":true}`, string(body.Checks["add_user"]))
	})

	t.Run("hidden in production", func(t *testing.T) {
		t.Parallel()

		usage := &countingUsage{}
		h := environment.Middleware(environment.Production)(newGate(t, subscription.PlanFree, usage))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
		assert.Zero(t, usage.calls.Load())
	})
}

func TestRouterMethods(t *testing.T) {
	t.Parallel()

	h := newGate(t, subscription.PlanFree, &countingUsage{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/check", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Panics(t, func() { gate.Router(gate.RouterOptions{}) })
}
