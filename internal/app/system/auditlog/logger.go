// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/lexhub/internal/app/store/audit"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, sync).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Access controls logging for access administration events
	// (case creation, grant/revoke, team membership changes).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Access string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// NewCorrelationID returns a fresh id for tying together the events of one
// multi-step flow.
func NewCorrelationID() string {
	return uuid.New().String()
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.CorrelationID != "" {
		fields = append(fields, zap.String("correlation_id", event.CorrelationID))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.TeamID != nil {
		fields = append(fields, zap.String("team_id", event.TeamID.Hex()))
	}
	if event.CaseID != nil {
		fields = append(fields, zap.String("case_id", event.CaseID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAccess:
		setting = l.config.Access
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// FirstSignInSync logs the creation of a user record from a verified
// external identity.
func (l *Logger) FirstSignInSync(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventFirstSignInSync,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"auth_method": authMethod},
	})
}

// LoginFailedUserNotFound logs a failed login due to user not found.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"attempted_email": attemptedEmail},
	})
}

// LoginFailedWrongPassword logs a failed login due to wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "wrong password",
	})
}

// LoginFailedUserDisabled logs a failed login due to disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "user disabled",
	})
}

// Logout logs a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// --- Access Administration Events ---

// CaseCreated logs a case creation. correlationID ties it to the
// auto-grant events written in the same flow.
func (l *Logger) CaseCreated(ctx context.Context, r *http.Request, correlationID string, actorID, caseID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventCaseCreated,
		CorrelationID: correlationID,
		ActorID:       &actorID,
		CaseID:        &caseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
	})
}

// CaseClosed logs a case close.
func (l *Logger) CaseClosed(ctx context.Context, r *http.Request, actorID, caseID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventCaseClosed,
		ActorID:   &actorID,
		CaseID:    &caseID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// AccessGranted logs a grant mutation (create, level change, or re-grant).
func (l *Logger) AccessGranted(ctx context.Context, r *http.Request, correlationID string, actorID, caseID primitive.ObjectID, subject models.Subject, level models.AccessLevel, outcome string) {
	e := audit.Event{
		Category:      audit.CategoryAccess,
		EventType:     audit.EventAccessGranted,
		CorrelationID: correlationID,
		ActorID:       &actorID,
		CaseID:        &caseID,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       true,
		Details: map[string]string{
			"subject_type": subject.Type,
			"level":        string(level),
			"outcome":      outcome,
		},
	}
	setSubject(&e, subject)
	l.Log(ctx, e)
}

// AccessRevoked logs a grant revocation.
func (l *Logger) AccessRevoked(ctx context.Context, r *http.Request, actorID, caseID primitive.ObjectID, subject models.Subject, outcome string) {
	e := audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventAccessRevoked,
		ActorID:   &actorID,
		CaseID:    &caseID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"subject_type": subject.Type,
			"outcome":      outcome,
		},
	}
	setSubject(&e, subject)
	l.Log(ctx, e)
}

// TeamCreated logs a team creation.
func (l *Logger) TeamCreated(ctx context.Context, r *http.Request, actorID, teamID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventTeamCreated,
		ActorID:   &actorID,
		TeamID:    &teamID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// TeamArchived logs a team archive.
func (l *Logger) TeamArchived(ctx context.Context, r *http.Request, actorID, teamID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventTeamArchived,
		ActorID:   &actorID,
		TeamID:    &teamID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// MemberAddedToTeam logs a membership addition or reactivation.
func (l *Logger) MemberAddedToTeam(ctx context.Context, r *http.Request, actorID, teamID, userID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventMemberAddedToTeam,
		ActorID:   &actorID,
		TeamID:    &teamID,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"role": role},
	})
}

// MemberRemovedFromTeam logs a membership deactivation.
func (l *Logger) MemberRemovedFromTeam(ctx context.Context, r *http.Request, actorID, teamID, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccess,
		EventType: audit.EventMemberRemovedFromTeam,
		ActorID:   &actorID,
		TeamID:    &teamID,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

func setSubject(e *audit.Event, subject models.Subject) {
	switch subject.Type {
	case models.SubjectUser:
		uid := subject.UserID
		e.UserID = &uid
	case models.SubjectTeam:
		tid := subject.TeamID
		e.TeamID = &tid
	}
}
