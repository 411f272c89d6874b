// internal/app/policy/teampolicy.go
package teampolicy

import (
	"context"
	"net/http"

	teamstore "github.com/dalemusser/lexhub/internal/app/store/teams"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IsLead returns true if the given user is an active lead of the given
// team according to the authoritative team_memberships collection.
func IsLead(ctx context.Context, db *mongo.Database, teamID, userID primitive.ObjectID) (bool, error) {
	c := db.Collection("team_memberships")
	n, err := c.CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"user_id": userID,
		"role":    "lead",
		"active":  true,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CanManageTeam reports whether the current request user can manage the
// team's membership:
// - the team's creator always can
// - active leads of the team can
// Returns an error if the database check fails, allowing callers to
// distinguish "not authorized" (false, nil) from "database error"
// (false, err).
func CanManageTeam(ctx context.Context, db *mongo.Database, r *http.Request, teamID primitive.ObjectID) (bool, error) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		return false, nil
	}

	team, err := teamstore.New(db).GetByID(ctx, teamID)
	if err != nil {
		if err == teamstore.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if team.CreatedBy == userID {
		return true, nil
	}

	return IsLead(ctx, db, teamID, userID)
}
