package limits

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cantera/pkg/binder"
	"github.com/dmitrymomot/cantera/pkg/environment"
	"github.com/dmitrymomot/cantera/pkg/limits"
	"github.com/dmitrymomot/cantera/pkg/logger"
	"github.com/dmitrymomot/cantera/pkg/subscription"
)

const internalError = "internal server error"

// maxBodyBytes bounds the check request; the only field is a short action name.
const maxBodyBytes = 4 << 10

type checkRequest struct {
	Action string `json:"action"`
}

// Checker runs a single limit check.
type Checker interface {
	Check(ctx context.Context, a limits.Action) (limits.Result, error)
}

// PlanResolver resolves the caller's effective plan.
type PlanResolver interface {
	GetUserPlan(ctx context.Context) subscription.PlanID
}

type handler struct {
	checker Checker
	plans   PlanResolver
	logger  *slog.Logger
}

// check handles POST /check.
func (h *handler) check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkRequest
	if err := binder.JSON(r, &req, maxBodyBytes); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody.Error())
		return
	}
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, ErrMissingAction.Error())
		return
	}
	action, err := limits.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid action: "+req.Action)
		return
	}

	res, err := h.checker.Check(ctx, action)
	if err != nil {
		h.logger.ErrorContext(ctx, "limit check failed",
			logger.Action(string(action)), logger.Error(err))
		writeError(w, http.StatusInternalServerError, internalError)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type checkFailure struct {
	Error string `json:"error"`
}

type testResponse struct {
	Plan     subscription.PlanID     `json:"plan"`
	PlanName string                  `json:"planName"`
	Limits   subscription.PlanLimits `json:"limits"`
	Checks   map[limits.Action]any   `json:"checks"`
}

// test handles GET /test, a diagnostic dump of every check for the
// caller. It does not exist in production.
func (h *handler) test(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if environment.IsProduction(ctx) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	plan := h.plans.GetUserPlan(ctx)
	resp := testResponse{
		Plan:     plan,
		PlanName: plan.DisplayName(),
		Limits:   subscription.GetPlanLimits(plan),
		Checks:   make(map[limits.Action]any, len(limits.Actions())),
	}

	for _, a := range limits.Actions() {
		res, err := h.checker.Check(ctx, a)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				writeError(w, http.StatusInternalServerError, internalError)
				return
			}
			h.logger.WarnContext(ctx, "diagnostic check failed",
				logger.Action(string(a)), logger.Error(err))
			resp.Checks[a] = checkFailure{Error: "check failed"}
			continue
		}
		resp.Checks[a] = res
	}

	writeJSON(w, http.StatusOK, resp)
}
