// internal/app/features/teams/handler.go
package teams

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	membershipstore "github.com/dalemusser/lexhub/internal/app/store/memberships"
	teamstore "github.com/dalemusser/lexhub/internal/app/store/teams"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
)

// Handler is the shared dependency container for the teams feature.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Teams       *teamstore.Store
	Memberships *membershipstore.Store
	Users       *userstore.Store
	AuditLog    *auditlog.Logger
}

// NewHandler constructs a teams Handler.
func NewHandler(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		Teams:       teamstore.New(db),
		Memberships: membershipstore.New(db),
		Users:       userstore.New(db),
		AuditLog:    audit,
	}
}
