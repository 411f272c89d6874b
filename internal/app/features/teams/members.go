// internal/app/features/teams/members.go
package teams

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/lexhub/internal/app/store/memberships"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMemberList handles GET /teams/{id}/members. Pass include_inactive=1
// to also see removed members (their documents are kept for history).
func (h *Handler) ServeMemberList(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	includeInactive := r.URL.Query().Get("include_inactive") == "1"
	members, err := h.Memberships.ListForTeam(ctx, teamID, includeInactive)
	if err != nil {
		h.Log.Error("member list query failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}
	if members == nil {
		members = []models.TeamMembership{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"members": members})
}

// memberRequest is the JSON body for membership mutations.
type memberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"` // add only; defaults to "member"
}

// HandleAddMember handles POST /teams/{id}/members. Re-adding a removed
// member reactivates the same membership document with the new role, so
// any team grants immediately apply to them again.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDParam(w, r)
	if !ok {
		return
	}
	actorID := authz.UserID(r)

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, "user_id is not a valid id", http.StatusBadRequest)
		return
	}
	role := req.Role
	if role == "" {
		role = models.TeamRoleMember
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireTeamManage(ctx, w, r, teamID) {
		return
	}

	newlyActive, err := h.Memberships.Add(ctx, teamID, memberID, role)
	switch err {
	case nil:
	case membershipstore.ErrBadRole:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case membershipstore.ErrTeamNotFound:
		uierrors.RenderNotFound(w, r, "team")
		return
	case membershipstore.ErrUserNotFound:
		http.Error(w, "user does not exist", http.StatusBadRequest)
		return
	default:
		h.Log.Error("member add failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	if newlyActive {
		h.AuditLog.MemberAddedToTeam(ctx, r, actorID, teamID, memberID, role)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"newly_active": newlyActive})
}

// HandleRemoveMember handles POST /teams/{id}/members/remove. Removal is a
// soft delete: the membership goes inactive and team-sourced access
// through it disappears on the next resolution.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDParam(w, r)
	if !ok {
		return
	}
	actorID := authz.UserID(r)

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	memberID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, "user_id is not a valid id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.requireTeamManage(ctx, w, r, teamID) {
		return
	}

	err = h.Memberships.Deactivate(ctx, teamID, memberID)
	switch err {
	case nil:
		h.AuditLog.MemberRemovedFromTeam(ctx, r, actorID, teamID, memberID)
	case membershipstore.ErrNotFound:
		// Removing an absent member is the idempotent no-op.
	default:
		h.Log.Error("member remove failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "removed"})
}
