// internal/app/policy/casepolicy.go
package casepolicy

import (
	"context"
	"net/http"

	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanManageGrants reports whether the current request user may administer
// access grants on the given case. The decision is the guard's: the user
// must hold the grants.manage capability on that case.
// Returns an error only for database failures, allowing callers to
// distinguish "not authorized" (false, nil) from "database error"
// (false, err).
func CanManageGrants(ctx context.Context, guard *access.Guard, r *http.Request, caseID primitive.ObjectID) (bool, error) {
	userID := authz.UserID(r)
	if userID == primitive.NilObjectID {
		return false, nil
	}
	_, err := guard.RequireCapability(ctx, userID, caseID, access.CapGrantsManage)
	if err == nil {
		return true, nil
	}
	if access.IsForbidden(err) || access.IsNotFound(err) || err == access.ErrUnauthenticated {
		return false, nil
	}
	return false, err
}

// CanCloseCase reports whether the current request user may close the
// given case (requires the case.delete capability).
func CanCloseCase(ctx context.Context, guard *access.Guard, r *http.Request, caseID primitive.ObjectID) (bool, error) {
	userID := authz.UserID(r)
	if userID == primitive.NilObjectID {
		return false, nil
	}
	_, err := guard.RequireCapability(ctx, userID, caseID, access.CapCaseDelete)
	if err == nil {
		return true, nil
	}
	if access.IsForbidden(err) || access.IsNotFound(err) || err == access.ErrUnauthenticated {
		return false, nil
	}
	return false, err
}
