// internal/app/features/cases/create.go
package cases

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	casestore "github.com/dalemusser/lexhub/internal/app/store/cases"
	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createCaseRequest is the JSON body for POST /cases.
type createCaseRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	AssignedUserID string `json:"assigned_user_id"`
}

// HandleCreateCase handles POST /cases.
//
// Creation and its two auto-grants are one flow: the creator receives an
// admin grant and the assignee an advanced grant, written as ordinary rows
// in case_access_grants so resolution stays a pure read over grants. A
// shared correlation id ties the audit events together.
func (h *Handler) HandleCreateCase(w http.ResponseWriter, r *http.Request) {
	userID := authz.UserID(r)

	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	title := htmlsanitize.Plain(req.Title)
	description := htmlsanitize.Plain(req.Description)
	if title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	assignedID, err := primitive.ObjectIDFromHex(req.AssignedUserID)
	if err != nil {
		http.Error(w, "assigned_user_id is not a valid id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lc := casestore.NewCase(title, description, userID, assignedID)
	if err := h.Cases.Insert(ctx, lc); err != nil {
		h.Log.Error("case insert failed", zap.Error(err))
		uierrors.RenderInternal(w, r)
		return
	}

	correlationID := auditlog.NewCorrelationID()
	h.AuditLog.CaseCreated(ctx, r, correlationID, userID, lc.ID)

	if err := h.writeAutoGrants(ctx, r, correlationID, lc.ID, userID, assignedID); err != nil {
		h.Log.Error("auto-grant write failed",
			zap.Error(err),
			zap.String("case_id", lc.ID.Hex()))
		uierrors.RenderInternal(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"case": lc})
}

// writeAutoGrants materializes the creation grants: creator at admin,
// assignee at advanced. When the creator assigns the case to themselves
// only the admin grant is written, since admin already dominates.
func (h *Handler) writeAutoGrants(ctx context.Context, r *http.Request, correlationID string, caseID, creatorID, assignedID primitive.ObjectID) error {
	creatorSubject := models.UserSubject(creatorID)
	res, err := h.Grants.Grant(ctx, grantstore.GrantParams{
		CaseID:    caseID,
		Subject:   creatorSubject,
		Level:     models.LevelAdmin,
		GrantedBy: creatorID,
	})
	if err != nil {
		return err
	}
	h.AuditLog.AccessGranted(ctx, r, correlationID, creatorID, caseID, creatorSubject, models.LevelAdmin, res.Outcome)

	if assignedID == creatorID {
		return nil
	}

	assigneeSubject := models.UserSubject(assignedID)
	res, err = h.Grants.Grant(ctx, grantstore.GrantParams{
		CaseID:    caseID,
		Subject:   assigneeSubject,
		Level:     models.LevelAdvanced,
		GrantedBy: creatorID,
	})
	if err != nil {
		return err
	}
	h.AuditLog.AccessGranted(ctx, r, correlationID, creatorID, caseID, assigneeSubject, models.LevelAdvanced, res.Outcome)
	return nil
}
