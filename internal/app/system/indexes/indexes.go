// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The grant and membership indexes are what keep access resolution
proportional to grants-for-case plus teams-for-user instead of a scan over
every grant in the system.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureTeams(ctx, db); err != nil {
		problems = append(problems, "teams: "+err.Error())
	}
	if err := ensureTeamMemberships(ctx, db); err != nil {
		problems = append(problems, "team_memberships: "+err.Error())
	}
	if err := ensureCases(ctx, db); err != nil {
		problems = append(problems, "cases: "+err.Error())
	}
	if err := ensureCaseAccessGrants(ctx, db); err != nil {
		problems = append(problems, "case_access_grants: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: ensure a set of desired indexes for one collection            */
/* -------------------------------------------------------------------------- */

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		sig := keySig(m.Keys.(bson.D))

		start := time.Now()
		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isOptionsConflictErr(err) {
				// Options changed since the index was first created:
				// drop by name and recreate with the desired definition.
				if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
					errs = append(errs, fmt.Sprintf("%s(%s): conflict drop failed: %v", coll.Name(), name, dropErr))
					continue
				}
				if _, err = coll.Indexes().CreateOne(ctx, m); err != nil {
					errs = append(errs, fmt.Sprintf("%s(%s): recreate failed: %v", coll.Name(), name, err))
					continue
				}
				zap.L().Info("index dropped and recreated",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.String("keys", sig),
					zap.String("took", time.Since(start).String()))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}

		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("created_name", created),
			zap.String("keys", sig),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// The external identity reference is the immutable sign-in key.
		{
			Keys:    bson.D{{Key: "auth_return_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_authreturnid"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Name search + stable sort for people pickers.
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_fullnameci_id"),
		},
	})
}

func ensureTeams(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("teams")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teams_nameci"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_teams_status_nameci"),
		},
	})
}

func ensureTeamMemberships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("team_memberships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One membership document per (team, user); Add reactivates it.
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_memberships_team_user"),
		},
		// The resolver's teams-for-user fan-out.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("idx_memberships_user_active"),
		},
	})
}

func ensureCases(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("cases")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_cases_status_createdat"),
		},
		{
			Keys:    bson.D{{Key: "creator_id", Value: 1}},
			Options: options.Index().SetName("idx_cases_creator"),
		},
		{
			Keys:    bson.D{{Key: "assigned_user_id", Value: 1}},
			Options: options.Index().SetName("idx_cases_assignee"),
		},
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_cases_titleci_id"),
		},
	})
}

func ensureCaseAccessGrants(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("case_access_grants")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One row per (case, subject); the grant store's upsert relies on
		// these to serialize concurrent grants on the same pair.
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "subject_type", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_grants_case_user").
				SetPartialFilterExpression(bson.M{"subject_type": "user"}),
		},
		{
			Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "subject_type", Value: 1}, {Key: "team_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_grants_case_team").
				SetPartialFilterExpression(bson.M{"subject_type": "team"}),
		},
		// The resolver's grants-for-case reads.
		{
			Keys:    bson.D{{Key: "case_id", Value: 1}, {Key: "active", Value: 1}, {Key: "subject_type", Value: 1}},
			Options: options.Index().SetName("idx_grants_case_active_subject"),
		},
		// "Cases granted to me / my team" lookups from the subject side.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("idx_grants_user_active"),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("idx_grants_team_active"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_category_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_actor_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "case_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_case_timestamp"),
		},
	})
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("oauth_states")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_oauth_state"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_oauth_ttl"),
		},
	})
}
