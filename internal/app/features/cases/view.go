// internal/app/features/cases/view.go
package cases

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	"github.com/dalemusser/lexhub/internal/app/policy/casepolicy"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// caseIDParam extracts the {id} URL parameter. A malformed id renders the
// same 404 as a missing case so probing ids learns nothing.
func caseIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "case")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeCaseView handles GET /cases/{id}. Viewing requires basic access.
func (h *Handler) ServeCaseView(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ea, err := h.Guard.RequireLevel(ctx, userID, caseID, models.LevelBasic)
	if err != nil {
		uierrors.RenderAccessError(w, r, h.Log, err)
		return
	}

	lc, err := h.Cases.GetByID(ctx, caseID)
	if err != nil {
		// The guard saw the case an instant ago; treat a miss here as gone.
		uierrors.RenderNotFound(w, r, "case")
		return
	}

	// Advisory flags for the UI; the real checks rerun on each mutation.
	canClose, err := casepolicy.CanCloseCase(ctx, h.Guard, r, caseID)
	if err != nil {
		h.Log.Error("close-policy check failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}
	canManageGrants, err := casepolicy.CanManageGrants(ctx, h.Guard, r, caseID)
	if err != nil {
		h.Log.Error("grant-policy check failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"case":              lc,
		"access":            ea,
		"can_close":         canClose,
		"can_manage_grants": canManageGrants,
	})
}

// HandleCloseCase handles POST /cases/{id}/delete. Closing is the delete
// surface for cases and requires the case.delete capability, re-checked
// here immediately before the write.
func (h *Handler) HandleCloseCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Guard.RequireCapability(ctx, userID, caseID, access.CapCaseDelete); err != nil {
		uierrors.RenderAccessError(w, r, h.Log, err)
		return
	}

	if err := h.Cases.Close(ctx, caseID); err != nil {
		h.Log.Error("case close failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	h.AuditLog.CaseClosed(ctx, r, userID, caseID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "closed"})
}
