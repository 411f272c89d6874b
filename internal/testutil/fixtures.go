package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, "active")
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, fullName, email, "disabled")
}

func (f *Fixtures) createUser(ctx context.Context, fullName, email, status string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Email:        email,
		AuthReturnID: text.Fold(email),
		AuthMethod:   "password",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTeam creates an active test team.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, createdBy primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test team description",
		Status:      "active",
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}

	return team
}

// CreateMembership creates an active membership linking a user to a team.
func (f *Fixtures) CreateMembership(ctx context.Context, teamID, userID primitive.ObjectID, role string) models.TeamMembership {
	f.t.Helper()

	now := time.Now().UTC()
	membership := models.TeamMembership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		Active:    true,
		CreatedAt: now,
	}

	if _, err := f.db.Collection("team_memberships").InsertOne(ctx, membership); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}

	return membership
}

// CreateCase creates an active case with the creator/assignee auto-grants
// materialized, mirroring what case creation does: the creator gets an
// admin grant and the assignee an advanced grant (skipped when they are
// the same user).
func (f *Fixtures) CreateCase(ctx context.Context, title string, creatorID, assignedID primitive.ObjectID) models.LegalCase {
	f.t.Helper()

	lc := f.CreateBareCase(ctx, title, creatorID, assignedID)
	f.CreateGrant(ctx, lc.ID, models.UserSubject(creatorID), models.LevelAdmin, creatorID)
	if assignedID != creatorID {
		f.CreateGrant(ctx, lc.ID, models.UserSubject(assignedID), models.LevelAdvanced, creatorID)
	}
	return lc
}

// CreateBareCase creates a case document with no grant rows at all.
// Useful for exercising the no-access paths.
func (f *Fixtures) CreateBareCase(ctx context.Context, title string, creatorID, assignedID primitive.ObjectID) models.LegalCase {
	f.t.Helper()

	now := time.Now().UTC()
	lc := models.LegalCase{
		ID:             primitive.NewObjectID(),
		Title:          title,
		TitleCI:        text.Fold(title),
		Description:    "Test case description",
		CreatorID:      creatorID,
		AssignedUserID: assignedID,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("cases").InsertOne(ctx, lc); err != nil {
		f.t.Fatalf("failed to create test case: %v", err)
	}

	return lc
}

// CreateGrant creates an active access grant row.
func (f *Fixtures) CreateGrant(ctx context.Context, caseID primitive.ObjectID, subject models.Subject, level models.AccessLevel, grantedBy primitive.ObjectID) models.AccessGrant {
	f.t.Helper()

	now := time.Now().UTC()
	grant := models.AccessGrant{
		ID:          primitive.NewObjectID(),
		CaseID:      caseID,
		SubjectType: subject.Type,
		Level:       string(level),
		Active:      true,
		GrantedBy:   grantedBy,
		GrantedAt:   now,
	}
	switch subject.Type {
	case models.SubjectUser:
		uid := subject.UserID
		grant.UserID = &uid
	case models.SubjectTeam:
		tid := subject.TeamID
		grant.TeamID = &tid
	}

	if _, err := f.db.Collection("case_access_grants").InsertOne(ctx, grant); err != nil {
		f.t.Fatalf("failed to create test grant: %v", err)
	}

	return grant
}
