// internal/app/system/access/resolver.go

// Package access is the case-level access-control engine. It combines the
// independent grant sources on a case — direct user grants (including the
// creator/assignee auto-grants, which are ordinary grant rows) and grants
// held by teams the user actively belongs to — into one effective level,
// and expands levels into per-resource capabilities.
//
// Resolution is a pure read over committed grant and membership state.
// Handlers that mutate must call the guard inside their own request
// handling, immediately before the write; a capability computed earlier
// (or displayed to the client) never authorizes anything.
package access

import (
	"context"

	casestore "github.com/dalemusser/lexhub/internal/app/store/cases"
	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	membershipstore "github.com/dalemusser/lexhub/internal/app/store/memberships"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Source tells which grant path produced the effective access.
type Source string

const (
	SourceDirect Source = "direct"
	SourceTeam   Source = "team"
	SourceNone   Source = "none"
)

// EffectiveAccess is the resolved (level, source) for one user on one
// case. It is derived on every resolution and never persisted.
type EffectiveAccess struct {
	HasAccess bool                `json:"has_access"`
	Level     models.AccessLevel  `json:"level,omitempty"`
	Source    Source              `json:"source"`
	TeamID    *primitive.ObjectID `json:"team_id,omitempty"` // set when Source is team
}

// Resolver computes effective access from the grant store and the team
// membership index.
type Resolver struct {
	cases       *casestore.Store
	grants      *grantstore.Store
	memberships *membershipstore.Store
	log         *zap.Logger
}

// NewResolver builds a Resolver over the given database.
func NewResolver(db *mongo.Database, logger *zap.Logger) *Resolver {
	return &Resolver{
		cases:       casestore.New(db),
		grants:      grantstore.New(db),
		memberships: membershipstore.New(db),
		log:         logger,
	}
}

// Resolve computes the user's effective access on the case.
//
// The effective level is the maximum over all active direct grants and all
// active grants held by teams the user actively belongs to. On equal
// levels from both paths the direct grant wins as the source: it is more
// specific and survives team churn. A missing case returns NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, userID, caseID primitive.ObjectID) (EffectiveAccess, error) {
	none := EffectiveAccess{Source: SourceNone}

	if _, err := r.cases.GetByID(ctx, caseID); err != nil {
		if err == casestore.ErrNotFound {
			return none, &NotFoundError{Resource: "case"}
		}
		return none, err
	}

	best := none

	direct, err := r.grants.ActiveDirectForCaseUser(ctx, caseID, userID)
	if err != nil {
		return none, err
	}
	for _, g := range direct {
		level, ok := r.grantLevel(g)
		if !ok {
			continue
		}
		if level.Rank() > best.Level.Rank() {
			best = EffectiveAccess{HasAccess: true, Level: level, Source: SourceDirect}
		}
	}

	teamIDs, err := r.memberships.ActiveTeamIDsForUser(ctx, userID)
	if err != nil {
		return none, err
	}
	teamGrants, err := r.grants.ActiveTeamGrantsForCase(ctx, caseID, teamIDs)
	if err != nil {
		return none, err
	}
	for _, g := range teamGrants {
		level, ok := r.grantLevel(g)
		if !ok {
			continue
		}
		// Strictly greater: a team grant never displaces a direct grant
		// of the same level as the source.
		if level.Rank() > best.Level.Rank() {
			best = EffectiveAccess{HasAccess: true, Level: level, Source: SourceTeam, TeamID: g.TeamID}
		}
	}

	return best, nil
}

// grantLevel parses a stored grant level, failing closed on integrity
// problems: an unknown level or a dangling subject contributes no access.
// The row is logged for operators but never surfaces to the read path.
func (r *Resolver) grantLevel(g models.AccessGrant) (models.AccessLevel, bool) {
	if g.SubjectType == models.SubjectTeam && g.TeamID == nil {
		r.log.Warn("access grant with dangling team subject treated as no access",
			zap.String("grant_id", g.ID.Hex()),
			zap.String("case_id", g.CaseID.Hex()))
		return "", false
	}
	level, ok := models.ParseAccessLevel(g.Level)
	if !ok {
		r.log.Warn("access grant with unknown level treated as no access",
			zap.String("grant_id", g.ID.Hex()),
			zap.String("case_id", g.CaseID.Hex()),
			zap.String("level", g.Level))
		return "", false
	}
	return level, true
}
