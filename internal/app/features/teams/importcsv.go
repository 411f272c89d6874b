// internal/app/features/teams/importcsv.go
package teams

import (
	"context"
	"encoding/json"
	"net/http"

	uierrors "github.com/dalemusser/lexhub/internal/app/features/errors"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"github.com/dalemusser/lexhub/internal/app/system/csvutil"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// importResult reports what one CSV import did.
type importResult struct {
	Added   int                `json:"added"`
	Skipped int                `json:"skipped"` // already active members
	Unknown []string           `json:"unknown,omitempty"`
	Errors  []csvutil.RowError `json:"errors,omitempty"`
}

// HandleImportMembersCSV handles POST /teams/{id}/members/import. The body
// is a CSV of Email[,Role] naming existing users. The whole file is
// validated before any membership is written; a file with bad rows is
// rejected outright so a partial import never needs untangling. Unknown
// emails are reported but do not fail the import.
func (h *Handler) HandleImportMembersCSV(w http.ResponseWriter, r *http.Request) {
	teamID, ok := teamIDParam(w, r)
	if !ok {
		return
	}
	actorID := authz.UserID(r)

	rows, rowErrs, err := csvutil.PreScanMembersCSV(
		http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize))
	if err != nil {
		http.Error(w, "unreadable CSV: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(rowErrs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(importResult{Errors: rowErrs})
		return
	}
	if len(rows) == 0 {
		http.Error(w, "CSV contains no rows", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if !h.requireTeamManage(ctx, w, r, teamID) {
		return
	}

	var res importResult
	for _, row := range rows {
		u, err := h.Users.GetByEmail(ctx, row.Email)
		if err == userstore.ErrNotFound {
			res.Unknown = append(res.Unknown, row.Email)
			continue
		}
		if err != nil {
			h.Log.Error("import user lookup failed", zap.Error(err), zap.String("email", row.Email))
			uierrors.RenderInternal(w, r)
			return
		}

		newlyActive, err := h.Memberships.Add(ctx, teamID, u.ID, row.Role)
		if err != nil {
			h.Log.Error("import member add failed",
				zap.Error(err),
				zap.String("team_id", teamID.Hex()),
				zap.String("user_id", u.ID.Hex()))
			uierrors.RenderInternal(w, r)
			return
		}
		if newlyActive {
			h.AuditLog.MemberAddedToTeam(ctx, r, actorID, teamID, u.ID, row.Role)
			res.Added++
		} else {
			res.Skipped++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
