package grantstore_test

import (
	"errors"
	"testing"

	grantstore "github.com/dalemusser/lexhub/internal/app/store/grants"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/dalemusser/lexhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGrant_CreateUpdateUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	admin := f.CreateUser(ctx, "Grant Admin", "admin@example.com")
	user := f.CreateUser(ctx, "Grantee", "grantee@example.com")
	lc := f.CreateBareCase(ctx, "Grant Case", admin.ID, admin.ID)

	store := grantstore.New(db)
	subject := models.UserSubject(user.ID)

	res, err := store.Grant(ctx, grantstore.GrantParams{
		CaseID:    lc.ID,
		Subject:   subject,
		Level:     models.LevelBasic,
		GrantedBy: admin.ID,
		Notes:     "initial",
	})
	if err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if res.Outcome != grantstore.OutcomeCreated {
		t.Errorf("first grant outcome = %s, want created", res.Outcome)
	}
	if res.Grant.Level != string(models.LevelBasic) || !res.Grant.Active {
		t.Errorf("grant row = %+v, want active basic", res.Grant)
	}
	grantID := res.Grant.ID

	// Same level again is the idempotent no-op.
	res, err = store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: subject, Level: models.LevelBasic, GrantedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("repeat grant: %v", err)
	}
	if res.Outcome != grantstore.OutcomeUnchanged {
		t.Errorf("repeat grant outcome = %s, want unchanged", res.Outcome)
	}

	// A level change updates the same document.
	res, err = store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: subject, Level: models.LevelAdmin, GrantedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("level change: %v", err)
	}
	if res.Outcome != grantstore.OutcomeUpdated {
		t.Errorf("level change outcome = %s, want updated", res.Outcome)
	}
	if res.Grant.ID != grantID {
		t.Errorf("level change created a new document %s, want reuse of %s", res.Grant.ID.Hex(), grantID.Hex())
	}
	if res.Grant.Level != string(models.LevelAdmin) {
		t.Errorf("level = %s, want admin", res.Grant.Level)
	}
}

func TestGrant_RevokeAndRegrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	admin := f.CreateUser(ctx, "Grant Admin", "admin@example.com")
	user := f.CreateUser(ctx, "Grantee", "grantee@example.com")
	lc := f.CreateBareCase(ctx, "Revoke Case", admin.ID, admin.ID)

	store := grantstore.New(db)
	subject := models.UserSubject(user.ID)

	res, err := store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: subject, Level: models.LevelAdvanced, GrantedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	grantID := res.Grant.ID

	rev, err := store.Revoke(ctx, lc.ID, subject, admin.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if rev.Outcome != grantstore.OutcomeRevoked {
		t.Errorf("revoke outcome = %s, want revoked", rev.Outcome)
	}

	// Revoking again is the no-op, not an error.
	rev, err = store.Revoke(ctx, lc.ID, subject, admin.ID)
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if rev.Outcome != grantstore.OutcomeUnchanged {
		t.Errorf("second revoke outcome = %s, want unchanged", rev.Outcome)
	}

	// The revoked row no longer feeds resolution reads.
	direct, err := store.ActiveDirectForCaseUser(ctx, lc.ID, user.ID)
	if err != nil {
		t.Fatalf("ActiveDirectForCaseUser: %v", err)
	}
	if len(direct) != 0 {
		t.Errorf("revoked grant still active: %+v", direct)
	}

	// Re-granting reactivates the same document.
	res, err = store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: subject, Level: models.LevelBasic, GrantedBy: admin.ID,
	})
	if err != nil {
		t.Fatalf("re-grant: %v", err)
	}
	if res.Outcome != grantstore.OutcomeUpdated {
		t.Errorf("re-grant outcome = %s, want updated", res.Outcome)
	}
	if res.Grant.ID != grantID {
		t.Errorf("re-grant created a new document %s, want reuse of %s", res.Grant.ID.Hex(), grantID.Hex())
	}
	if !res.Grant.Active || res.Grant.Level != string(models.LevelBasic) {
		t.Errorf("re-granted row = %+v, want active basic", res.Grant)
	}
	if res.Grant.RevokedBy != nil || res.Grant.RevokedAt != nil {
		t.Errorf("re-grant kept revocation fields: %+v", res.Grant)
	}
}

func TestGrant_RevokeAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	admin := f.CreateUser(ctx, "Grant Admin", "admin@example.com")
	lc := f.CreateBareCase(ctx, "Empty Case", admin.ID, admin.ID)

	store := grantstore.New(db)

	rev, err := store.Revoke(ctx, lc.ID, models.UserSubject(primitive.NewObjectID()), admin.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if rev.Outcome != grantstore.OutcomeUnchanged {
		t.Errorf("outcome = %s, want unchanged", rev.Outcome)
	}
}

func TestGrant_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := grantstore.New(db)
	caseID := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	_, err := store.Grant(ctx, grantstore.GrantParams{
		CaseID: caseID, Subject: models.Subject{}, Level: models.LevelBasic, GrantedBy: actor,
	})
	if !errors.Is(err, grantstore.ErrBadSubject) {
		t.Errorf("empty subject: err = %v, want ErrBadSubject", err)
	}

	_, err = store.Grant(ctx, grantstore.GrantParams{
		CaseID: caseID, Subject: models.UserSubject(primitive.NewObjectID()), Level: "owner", GrantedBy: actor,
	})
	if !errors.Is(err, grantstore.ErrBadLevel) {
		t.Errorf("bad level: err = %v, want ErrBadLevel", err)
	}

	_, err = store.Revoke(ctx, caseID, models.Subject{}, actor)
	if !errors.Is(err, grantstore.ErrBadSubject) {
		t.Errorf("revoke empty subject: err = %v, want ErrBadSubject", err)
	}
}

func TestTeamGrantReads(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	admin := f.CreateUser(ctx, "Grant Admin", "admin@example.com")
	team := f.CreateTeam(ctx, "Litigation", admin.ID)
	other := f.CreateTeam(ctx, "Paralegals", admin.ID)
	lc := f.CreateBareCase(ctx, "Team Read Case", admin.ID, admin.ID)
	f.CreateGrant(ctx, lc.ID, models.TeamSubject(team.ID), models.LevelAdvanced, admin.ID)

	store := grantstore.New(db)

	grants, err := store.ActiveTeamGrantsForCase(ctx, lc.ID, []primitive.ObjectID{team.ID, other.ID})
	if err != nil {
		t.Fatalf("ActiveTeamGrantsForCase: %v", err)
	}
	if len(grants) != 1 || grants[0].TeamID == nil || *grants[0].TeamID != team.ID {
		t.Errorf("grants = %+v, want one grant for %s", grants, team.ID.Hex())
	}

	// No memberships means no team reads at all.
	grants, err = store.ActiveTeamGrantsForCase(ctx, lc.ID, nil)
	if err != nil {
		t.Fatalf("empty team list: %v", err)
	}
	if grants != nil {
		t.Errorf("empty team list returned %+v", grants)
	}
}

func TestListForCase_IncludesRevoked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	admin := f.CreateUser(ctx, "Grant Admin", "admin@example.com")
	user := f.CreateUser(ctx, "Grantee", "grantee@example.com")
	team := f.CreateTeam(ctx, "Litigation", admin.ID)
	lc := f.CreateBareCase(ctx, "History Case", admin.ID, admin.ID)

	store := grantstore.New(db)
	if _, err := store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: models.UserSubject(user.ID), Level: models.LevelBasic, GrantedBy: admin.ID,
	}); err != nil {
		t.Fatalf("grant user: %v", err)
	}
	if _, err := store.Grant(ctx, grantstore.GrantParams{
		CaseID: lc.ID, Subject: models.TeamSubject(team.ID), Level: models.LevelAdvanced, GrantedBy: admin.ID,
	}); err != nil {
		t.Fatalf("grant team: %v", err)
	}
	if _, err := store.Revoke(ctx, lc.ID, models.UserSubject(user.ID), admin.ID); err != nil {
		t.Fatalf("revoke user: %v", err)
	}

	grants, err := store.ListForCase(ctx, lc.ID)
	if err != nil {
		t.Fatalf("ListForCase: %v", err)
	}
	if len(grants) != 2 {
		t.Fatalf("got %d grants, want 2 (history keeps revoked rows)", len(grants))
	}
}
