// internal/app/system/access/guard.go
package access

import (
	"context"

	"github.com/dalemusser/lexhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Guard wraps the resolver with enforcement. Sensitive operations call one
// of the Require methods and treat any returned error as final.
type Guard struct {
	resolver *Resolver
}

// NewGuard builds a Guard over the given database.
func NewGuard(db *mongo.Database, logger *zap.Logger) *Guard {
	return &Guard{resolver: NewResolver(db, logger)}
}

// Resolver exposes the underlying resolver for callers that only need the
// raw EffectiveAccess (e.g., the access display endpoint).
func (g *Guard) Resolver() *Resolver {
	return g.resolver
}

// RequireLevel resolves the user's access and enforces a minimum level.
// Failures are ErrUnauthenticated, NotFoundError, or ForbiddenError; the
// returned ForbiddenError identifies the shortfall ("have X, need Y").
func (g *Guard) RequireLevel(ctx context.Context, userID, caseID primitive.ObjectID, min models.AccessLevel) (EffectiveAccess, error) {
	if userID.IsZero() {
		return EffectiveAccess{Source: SourceNone}, ErrUnauthenticated
	}
	ea, err := g.resolver.Resolve(ctx, userID, caseID)
	if err != nil {
		return ea, err
	}
	if !ea.HasAccess {
		return ea, noAccess()
	}
	if !ea.Level.AtLeast(min) {
		return ea, insufficientLevel(ea.Level, min)
	}
	return ea, nil
}

// RequireCapability resolves the user's access and enforces one
// fine-grained capability via the capability table for the resolved level.
func (g *Guard) RequireCapability(ctx context.Context, userID, caseID primitive.ObjectID, c Capability) (EffectiveAccess, error) {
	if userID.IsZero() {
		return EffectiveAccess{Source: SourceNone}, ErrUnauthenticated
	}
	ea, err := g.resolver.Resolve(ctx, userID, caseID)
	if err != nil {
		return ea, err
	}
	if !ea.HasAccess {
		return ea, noAccess()
	}
	if !CapabilitiesFor(ea.Level).Can(c) {
		return ea, missingCapability(ea.Level, c)
	}
	return ea, nil
}

// Check is the non-throwing variant for list contexts that filter per item
// instead of aborting the request. Missing cases and missing access both
// come back as HasAccess=false with a nil error; only infrastructure
// failures return an error.
func (g *Guard) Check(ctx context.Context, userID, caseID primitive.ObjectID) (EffectiveAccess, error) {
	none := EffectiveAccess{Source: SourceNone}
	if userID.IsZero() {
		return none, nil
	}
	ea, err := g.resolver.Resolve(ctx, userID, caseID)
	if err != nil {
		if IsNotFound(err) {
			return none, nil
		}
		return none, err
	}
	return ea, nil
}
