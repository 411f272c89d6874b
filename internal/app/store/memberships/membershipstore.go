// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/lexhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
	teams *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("team_memberships"),
		users: db.Collection("users"),
		teams: db.Collection("teams"),
	}
}

var (
	ErrBadRole      = errors.New(`role must be "lead" or "member"`)
	ErrTeamNotFound = errors.New("team not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotFound     = errors.New("membership not found")
)

// Add puts a user on a team. There is at most one membership document per
// (team, user); re-adding a previously removed member reactivates the same
// document with the new role. Returns true when the membership was not
// active before the call.
func (s *Store) Add(ctx context.Context, teamID, userID primitive.ObjectID, role string) (bool, error) {
	if role != models.TeamRoleLead && role != models.TeamRoleMember {
		return false, ErrBadRole
	}

	// Both sides must exist; a membership pointing at a missing team or
	// user is exactly the dangling-subject integrity problem the resolver
	// has to guard against.
	if err := s.teams.FindOne(ctx, bson.M{"_id": teamID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, ErrTeamNotFound
		}
		return false, err
	}
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, ErrUserNotFound
		}
		return false, err
	}

	now := time.Now().UTC()
	filter := bson.M{"team_id": teamID, "user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"role":   role,
			"active": true,
		},
		"$unset":       bson.M{"deactivated_at": ""},
		"$setOnInsert": bson.M{"team_id": teamID, "user_id": userID, "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var before models.TeamMembership
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err == mongo.ErrNoDocuments {
		return true, nil // first time on this team
	}
	if err != nil {
		return false, err
	}
	return !before.Active, nil
}

// Deactivate soft-deletes the membership. The document stays for history;
// team-sourced access through it disappears on the very next resolution.
// Returns ErrNotFound when no active membership exists.
func (s *Store) Deactivate(ctx context.Context, teamID, userID primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"team_id": teamID, "user_id": userID, "active": true},
		bson.M{"$set": bson.M{"active": false, "deactivated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveTeamIDsForUser returns the teams the user actively belongs to.
// This is the fan-out the access resolver follows, so it reads only the
// team_id field and relies on the (user_id, active) index.
func (s *Store) ActiveTeamIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"team_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m struct {
			TeamID primitive.ObjectID `bson:"team_id"`
		}
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.TeamID)
	}
	return ids, cur.Err()
}

// ListForTeam returns memberships for a team, active ones first.
func (s *Store) ListForTeam(ctx context.Context, teamID primitive.ObjectID, includeInactive bool) ([]models.TeamMembership, error) {
	filter := bson.M{"team_id": teamID}
	if !includeInactive {
		filter["active"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "active", Value: -1}, {Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var memberships []models.TeamMembership
	if err := cur.All(ctx, &memberships); err != nil {
		return nil, err
	}
	return memberships, nil
}

// IsActiveLead reports whether the user is an active lead of the team.
func (s *Store) IsActiveLead(ctx context.Context, teamID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"team_id": teamID,
		"user_id": userID,
		"role":    models.TeamRoleLead,
		"active":  true,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
