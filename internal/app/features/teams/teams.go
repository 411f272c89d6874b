// internal/app/features/teams/teams.go
package teams

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	"github.com/dalemusser/lexhub/internal/app/policy/teampolicy"
	teamstore "github.com/dalemusser/lexhub/internal/app/store/teams"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// teamIDParam extracts the {id} URL parameter.
func teamIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "team")
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireTeamManage checks the team-management policy and renders the
// failure itself. Membership in a team is visible to any signed-in user;
// changing it is not.
func (h *Handler) requireTeamManage(ctx context.Context, w http.ResponseWriter, r *http.Request, teamID primitive.ObjectID) bool {
	ok, err := teampolicy.CanManageTeam(ctx, h.DB, r, teamID)
	if err != nil {
		h.Log.Error("team policy check failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		uierrors.RenderInternal(w, r)
		return false
	}
	if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// ServeTeamList handles GET /teams: active teams, sorted by name. Teams
// are not secret; case access is what grants protect.
func (h *Handler) ServeTeamList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Teams.List(ctx)
	if err != nil {
		h.Log.Error("team list query failed", zap.Error(err))
		uierrors.RenderInternal(w, r)
		return
	}
	if list == nil {
		list = []models.Team{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"teams": list})
}

// createTeamRequest is the JSON body for POST /teams.
type createTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateTeam handles POST /teams. The creator is added as an active
// lead in the same flow so the new team is manageable immediately.
func (h *Handler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	userID := authz.UserID(r)

	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	name := htmlsanitize.Plain(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := h.Teams.Create(ctx, name, htmlsanitize.Plain(req.Description), userID)
	if err != nil {
		h.Log.Error("team create failed", zap.Error(err))
		uierrors.RenderInternal(w, r)
		return
	}

	if _, err := h.Memberships.Add(ctx, team.ID, userID, models.TeamRoleLead); err != nil {
		h.Log.Error("creator lead membership failed",
			zap.Error(err),
			zap.String("team_id", team.ID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	h.AuditLog.TeamCreated(ctx, r, userID, team.ID)
	h.AuditLog.MemberAddedToTeam(ctx, r, userID, team.ID, userID, models.TeamRoleLead)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"team": team})
}

// HandleArchiveTeam handles POST /teams/{id}/archive. Archiving does not
// touch the team's grant rows; access through them simply ends when
// memberships stop resolving, and unarchiving is not supported.
func (h *Handler) HandleArchiveTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.requireTeamManage(ctx, w, r, teamID) {
		return
	}

	if err := h.Teams.Archive(ctx, teamID); err != nil {
		if err == teamstore.ErrNotFound {
			uierrors.RenderNotFound(w, r, "team")
			return
		}
		h.Log.Error("team archive failed", zap.Error(err), zap.String("team_id", teamID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	h.AuditLog.TeamArchived(ctx, r, userID, teamID)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "archived"})
}
