// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's name, Mongo ObjectID, and a found
// flag. If no user is present in context or the user ID is malformed, it
// returns "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
//
// There are no ambient roles in LexHub: what a user may do on a case
// always comes from resolving their grants, so this helper deliberately
// exposes identity only.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		// This should not happen in normal operation; indicates session corruption.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

// UserID returns just the current user's ObjectID, NilObjectID when not
// signed in. Handy for guard calls where the zero ID already means
// "unauthenticated".
func UserID(r *http.Request) primitive.ObjectID {
	_, id, _ := UserCtx(r)
	return id
}
