// internal/app/store/grants/grantstore.go
package grantstore

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

// Grant/revoke outcomes. "unchanged" is the idempotent no-op: the row was
// already in the requested state, which callers report instead of erroring.
const (
	OutcomeCreated   = "created"
	OutcomeUpdated   = "updated"
	OutcomeRevoked   = "revoked"
	OutcomeUnchanged = "unchanged"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("case_access_grants")}
}

var (
	ErrBadSubject = errors.New("grant subject must name exactly one user or team")
	ErrBadLevel   = errors.New("grant level is not a known access level")
)

// GrantParams describes one grant mutation.
type GrantParams struct {
	CaseID    primitive.ObjectID
	Subject   models.Subject
	Level     models.AccessLevel
	GrantedBy primitive.ObjectID
	Notes     string
}

// GrantResult reports what a Grant call did.
type GrantResult struct {
	Outcome string // created | updated | unchanged
	Grant   models.AccessGrant
}

// RevokeResult reports what a Revoke call did.
type RevokeResult struct {
	Outcome string // revoked | unchanged
}

// subjectFilter matches the single document for (case, subject). There is
// one document per pair for the life of the system; revoke and re-grant
// reuse it, so the filter never needs an active clause.
func subjectFilter(caseID primitive.ObjectID, subject models.Subject) bson.M {
	f := bson.M{"case_id": caseID, "subject_type": subject.Type}
	switch subject.Type {
	case models.SubjectUser:
		f["user_id"] = subject.UserID
	case models.SubjectTeam:
		f["team_id"] = subject.TeamID
	}
	return f
}

// Grant upserts the access grant for (case, subject) to the requested
// level, activating it if needed. The mutation is a single atomic
// FindOneAndUpdate so concurrent grants on the same pair serialize inside
// MongoDB; last writer wins. A grant that matches the existing active row
// reports OutcomeUnchanged.
func (s *Store) Grant(ctx context.Context, p GrantParams) (GrantResult, error) {
	if !p.Subject.Valid() {
		return GrantResult{}, ErrBadSubject
	}
	if !p.Level.IsValid() {
		return GrantResult{}, ErrBadLevel
	}

	now := time.Now().UTC()
	set := bson.M{
		"level":      string(p.Level),
		"active":     true,
		"granted_by": p.GrantedBy,
		"granted_at": now,
	}
	if p.Notes != "" {
		set["notes"] = p.Notes
	}
	setOnInsert := bson.M{
		"case_id":      p.CaseID,
		"subject_type": p.Subject.Type,
	}
	switch p.Subject.Type {
	case models.SubjectUser:
		setOnInsert["user_id"] = p.Subject.UserID
	case models.SubjectTeam:
		setOnInsert["team_id"] = p.Subject.TeamID
	}
	update := bson.M{
		"$set":         set,
		"$unset":       bson.M{"revoked_by": "", "revoked_at": ""},
		"$setOnInsert": setOnInsert,
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)
	var before models.AccessGrant
	err := s.c.FindOneAndUpdate(ctx, subjectFilter(p.CaseID, p.Subject), update, opts).Decode(&before)

	outcome := OutcomeUpdated
	switch {
	case err == mongo.ErrNoDocuments:
		outcome = OutcomeCreated
	case err != nil:
		return GrantResult{}, err
	case before.Active && before.Level == string(p.Level):
		// The resolved state is identical; only the grant timestamp moved.
		outcome = OutcomeUnchanged
	}

	var after models.AccessGrant
	if err := s.c.FindOne(ctx, subjectFilter(p.CaseID, p.Subject)).Decode(&after); err != nil {
		return GrantResult{}, err
	}
	return GrantResult{Outcome: outcome, Grant: after}, nil
}

// Revoke closes the active grant for (case, subject). The row is kept with
// active=false so notes and history survive. Revoking an already-inactive
// or absent grant reports OutcomeUnchanged.
func (s *Store) Revoke(ctx context.Context, caseID primitive.ObjectID, subject models.Subject, revokedBy primitive.ObjectID) (RevokeResult, error) {
	if !subject.Valid() {
		return RevokeResult{}, ErrBadSubject
	}

	filter := subjectFilter(caseID, subject)
	filter["active"] = true

	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"active": false, "revoked_by": revokedBy, "revoked_at": now},
	})
	if err != nil {
		return RevokeResult{}, err
	}
	if res.MatchedCount == 0 {
		return RevokeResult{Outcome: OutcomeUnchanged}, nil
	}
	return RevokeResult{Outcome: OutcomeRevoked}, nil
}

// ActiveDirectForCaseUser returns the active grants naming the user
// directly on the case. This is one of the two indexed reads the access
// resolver performs.
func (s *Store) ActiveDirectForCaseUser(ctx context.Context, caseID, userID primitive.ObjectID) ([]models.AccessGrant, error) {
	return s.find(ctx, bson.M{
		"case_id":      caseID,
		"subject_type": models.SubjectUser,
		"user_id":      userID,
		"active":       true,
	})
}

// ActiveTeamGrantsForCase returns the active grants on the case held by
// any of the given teams. An empty team list short-circuits to no grants.
func (s *Store) ActiveTeamGrantsForCase(ctx context.Context, caseID primitive.ObjectID, teamIDs []primitive.ObjectID) ([]models.AccessGrant, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{
		"case_id":      caseID,
		"subject_type": models.SubjectTeam,
		"team_id":      bson.M{"$in": teamIDs},
		"active":       true,
	})
}

// ListForCase returns every grant row for the case, newest first,
// including revoked rows so grant administration can show history.
func (s *Store) ListForCase(ctx context.Context, caseID primitive.ObjectID) ([]models.AccessGrant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "granted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var grants []models.AccessGrant
	if err := cur.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.AccessGrant, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var grants []models.AccessGrant
	if err := cur.All(ctx, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}
