// internal/app/features/grants/handler.go
package grants

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	teamstore "github.com/dalemusser/lexhub/internal/app/store/teams"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
)

// Handler is the shared dependency container for grant administration.
// Every endpoint requires the grants.manage capability on the target
// case, checked per request through the guard.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	Guard    *access.Guard
	Grants   *grantstore.Store
	Users    *userstore.Store
	Teams    *teamstore.Store
	AuditLog *auditlog.Logger
}

// NewHandler constructs a grants Handler.
func NewHandler(db *mongo.Database, guard *access.Guard, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		Guard:    guard,
		Grants:   grantstore.New(db),
		Users:    userstore.New(db),
		Teams:    teamstore.New(db),
		AuditLog: audit,
	}
}
