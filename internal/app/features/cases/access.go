// internal/app/features/cases/access.go
package cases

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
)

// ServeCaseAccess handles GET /cases/{id}/access: the caller's own
// resolved access on the case, including has_access=false when they hold
// nothing. A missing case is still a 404.
func (h *Handler) ServeCaseAccess(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ea, err := h.Guard.Resolver().Resolve(ctx, userID, caseID)
	if err != nil {
		uierrors.RenderAccessError(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"access": ea})
}

// ServeCaseCapabilities handles GET /cases/{id}/capabilities.
//
// The response is advisory, for building the client UI. Server-side
// enforcement never trusts it: every mutating endpoint re-runs the guard
// within its own request.
func (h *Handler) ServeCaseCapabilities(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ea, err := h.Guard.Resolver().Resolve(ctx, userID, caseID)
	if err != nil {
		uierrors.RenderAccessError(w, r, h.Log, err)
		return
	}

	caps := []access.Capability{}
	if ea.HasAccess {
		table := access.CapabilitiesFor(ea.Level)
		for _, c := range access.AllCapabilities {
			if table.Can(c) {
				caps = append(caps, c)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access":       ea,
		"capabilities": caps,
	})
}
