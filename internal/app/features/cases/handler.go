// internal/app/features/cases/handler.go
package cases

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	casestore "github.com/dalemusser/lexhub/internal/app/store/cases"
	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
)

// Handler is the shared dependency container for the cases feature. Every
// endpoint under /cases resolves authorization through the Guard; nothing
// here consults session state for permissions.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Guard    *access.Guard
	Cases    *casestore.Store
	Grants   *grantstore.Store
	AuditLog *auditlog.Logger
}

// NewHandler constructs a cases Handler. It is typically called from the
// bootstrap BuildHandler function, where the DB, guard, and audit logger
// are already initialized.
func NewHandler(db *mongo.Database, guard *access.Guard, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Guard:    guard,
		Cases:    casestore.New(db),
		Grants:   grantstore.New(db),
		AuditLog: audit,
	}
}
