// internal/app/features/logout/handler.go
package logout

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler handles logout.
type Handler struct {
	Log      *zap.Logger
	AuditLog *auditlog.Logger
}

// NewHandler creates a new logout handler.
func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, AuditLog: audit}
}

// HandleLogout handles POST /logout. Signing out an already-signed-out
// session succeeds quietly.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID := authz.UserID(r)

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("session clear failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if userID != primitive.NilObjectID {
		h.AuditLog.Logout(r.Context(), r, userID)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "signed_out"})
}
