// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/dalemusser/lexhub/internal/app/system/ratelimit"
	"github.com/dalemusser/lexhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles password login.
type Handler struct {
	Log      *zap.Logger
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.LoginLimiter
}

// NewHandler creates a new login handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Users:    userstore.New(db),
		AuditLog: audit,
		Limiter:  ratelimit.NewLoginLimiter(),
	}
}

// loginRequest is the JSON body for POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLoginPost handles POST /login.
//
// Every failure mode returns the same 401 body. The distinction between
// unknown email, wrong password, and disabled account exists only in the
// audit trail.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	// Rate limiting runs before any credential work so brute forcing
	// stays cheap to refuse.
	if allowed, reason := h.Limiter.Check(r, req.Email); !allowed {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": reason})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.VerifyPassword(ctx, req.Email, req.Password)
	switch err {
	case nil:
	case userstore.ErrNotFound:
		h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
		h.renderRejected(w)
		return
	case userstore.ErrWrongPassword:
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID)
		h.renderRejected(w)
		return
	default:
		h.Log.Error("login lookup failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if u.Status == "disabled" {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID)
		h.renderRejected(w)
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
	}); err != nil {
		h.Log.Error("session write failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, "password")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":    u.ID.Hex(),
		"name":  u.FullName,
		"email": u.Email,
	})
}

func (h *Handler) renderRejected(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid email or password"})
}
