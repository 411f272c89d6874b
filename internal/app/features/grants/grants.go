// internal/app/features/grants/grants.go
package grants

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	teamstore "github.com/dalemusser/lexhub/internal/app/store/teams"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// subjectBody is the JSON shape naming a grant subject.
type subjectBody struct {
	SubjectType string `json:"subject_type"` // "user" | "team"
	UserID      string `json:"user_id,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
}

// grantBody is the JSON body for POST /cases/{id}/grants.
type grantBody struct {
	subjectBody
	Level string `json:"level"`
	Notes string `json:"notes,omitempty"`
}

// caseIDParam extracts the {id} URL parameter. A malformed id renders the
// same 404 as a missing case.
func caseIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "case")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseSubject turns the JSON subject into a validated models.Subject.
// The second return is an error message for the client, empty on success.
func parseSubject(b subjectBody) (models.Subject, string) {
	switch b.SubjectType {
	case models.SubjectUser:
		id, err := primitive.ObjectIDFromHex(b.UserID)
		if err != nil {
			return models.Subject{}, "user_id is not a valid id"
		}
		return models.UserSubject(id), ""
	case models.SubjectTeam:
		id, err := primitive.ObjectIDFromHex(b.TeamID)
		if err != nil {
			return models.Subject{}, "team_id is not a valid id"
		}
		return models.TeamSubject(id), ""
	}
	return models.Subject{}, "subject_type must be \"user\" or \"team\""
}

// subjectExists verifies the grant target is a real user or team before a
// row naming it is written. Grants never point at dangling subjects from
// this path; the resolver still fails closed if data rots underneath.
func (h *Handler) subjectExists(ctx context.Context, s models.Subject) (bool, error) {
	switch s.Type {
	case models.SubjectUser:
		_, err := h.Users.GetByID(ctx, s.UserID)
		if err == userstore.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	case models.SubjectTeam:
		_, err := h.Teams.GetByID(ctx, s.TeamID)
		if err == teamstore.ErrNotFound {
			return false, nil
		}
		return err == nil, err
	}
	return false, nil
}

// requireManage runs the grants.manage check for the case. It renders the
// failure itself and reports whether the caller may proceed.
func (h *Handler) requireManage(ctx context.Context, w http.ResponseWriter, r *http.Request, userID, caseID primitive.ObjectID) bool {
	if _, err := h.Guard.RequireCapability(ctx, userID, caseID, access.CapGrantsManage); err != nil {
		uierrors.RenderAccessError(w, r, h.Log, err)
		return false
	}
	return true
}

// ServeGrantList handles GET /cases/{id}/grants: every grant row on the
// case, newest first, revoked rows included for history.
func (h *Handler) ServeGrantList(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.requireManage(ctx, w, r, userID, caseID) {
		return
	}

	rows, err := h.Grants.ListForCase(ctx, caseID)
	if err != nil {
		h.Log.Error("grant list query failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}
	if rows == nil {
		rows = []models.AccessGrant{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"grants": rows})
}

// HandleGrant handles POST /cases/{id}/grants. Granting is idempotent: a
// repeat of the current state reports outcome "unchanged" with 200 rather
// than an error.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	var body grantBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	subject, msg := parseSubject(body.subjectBody)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	level, ok2 := models.ParseAccessLevel(body.Level)
	if !ok2 {
		http.Error(w, "level must be basic, advanced, or admin", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.requireManage(ctx, w, r, userID, caseID) {
		return
	}

	exists, err := h.subjectExists(ctx, subject)
	if err != nil {
		h.Log.Error("grant subject lookup failed", zap.Error(err))
		uierrors.RenderInternal(w, r)
		return
	}
	if !exists {
		http.Error(w, "grant subject does not exist", http.StatusBadRequest)
		return
	}

	res, err := h.Grants.Grant(ctx, grantstore.GrantParams{
		CaseID:    caseID,
		Subject:   subject,
		Level:     level,
		GrantedBy: userID,
		Notes:     htmlsanitize.Plain(body.Notes),
	})
	if err != nil {
		h.Log.Error("grant write failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	h.AuditLog.AccessGranted(ctx, r, auditlog.NewCorrelationID(), userID, caseID, subject, level, res.Outcome)

	w.Header().Set("Content-Type", "application/json")
	if res.Outcome == grantstore.OutcomeCreated {
		w.WriteHeader(http.StatusCreated)
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"outcome": res.Outcome,
		"grant":   res.Grant,
	})
}

// HandleRevoke handles POST /cases/{id}/grants/revoke. Revoking an
// already-inactive or absent grant reports outcome "unchanged".
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	caseID, ok := caseIDParam(w, r)
	if !ok {
		return
	}
	userID := authz.UserID(r)

	var body subjectBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	subject, msg := parseSubject(body)
	if msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !h.requireManage(ctx, w, r, userID, caseID) {
		return
	}

	res, err := h.Grants.Revoke(ctx, caseID, subject, userID)
	if err != nil {
		h.Log.Error("grant revoke failed", zap.Error(err), zap.String("case_id", caseID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	h.AuditLog.AccessRevoked(ctx, r, userID, caseID, subject, res.Outcome)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"outcome": res.Outcome})
}
