package teams_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/lexhub/internal/app/features/teams"
	"github.com/dalemusser/lexhub/internal/app/store/audit"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/domain/models"
	"github.com/dalemusser/lexhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database) *teams.Handler {
	logger := zap.NewNop()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Access: "db"})
	return teams.NewHandler(db, auditLog, logger)
}

func TestHandleCreateTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	h := newTestHandler(db)

	req := testutil.NewJSONRequest(http.MethodPost, "/teams",
		`{"name":"Litigation","description":"Civil litigation group"}`, testutil.UserFor(creator))
	rec := testutil.NewRecorder()
	h.HandleCreateTeam(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	var resp struct {
		Team models.Team `json:"team"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Team.Name != "Litigation" || resp.Team.CreatedBy != creator.ID {
		t.Errorf("team = %+v", resp.Team)
	}

	// The creator comes out as an active lead so the team is manageable
	// from the first moment.
	lead, err := h.Memberships.IsActiveLead(ctx, resp.Team.ID, creator.ID)
	if err != nil {
		t.Fatalf("IsActiveLead: %v", err)
	}
	if !lead {
		t.Error("creator is not an active lead of the new team")
	}
}

func TestHandleCreateTeam_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	h := newTestHandler(db)

	for name, body := range map[string]string{
		"missing name": `{"description":"no name"}`,
		"markup name":  `{"name":"<b></b>"}`,
		"bad json":     `{`,
	} {
		req := testutil.NewJSONRequest(http.MethodPost, "/teams", body, testutil.UserFor(creator))
		rec := testutil.NewRecorder()
		h.HandleCreateTeam(rec.ResponseRecorder, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestHandleArchiveTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	outsider := f.CreateUser(ctx, "Outsider", "outsider@example.com")
	team := f.CreateTeam(ctx, "Litigation", creator.ID)
	h := newTestHandler(db)

	post := func(user testutil.TestUser, id string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodPost, "/teams/"+id+"/archive", user)
		req = testutil.WithChiURLParam(req, "id", id)
		rec := testutil.NewRecorder()
		h.HandleArchiveTeam(rec.ResponseRecorder, req)
		return rec
	}

	// Only the creator or a lead may archive.
	rec := post(testutil.UserFor(outsider), team.ID.Hex())
	rec.AssertStatus(t, http.StatusForbidden)

	rec = post(testutil.UserFor(creator), team.ID.Hex())
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"archived"`)
}

func TestMembershipFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	member := f.CreateUser(ctx, "New Member", "member@example.com")
	team := f.CreateTeam(ctx, "Litigation", creator.ID)
	f.CreateMembership(ctx, team.ID, creator.ID, models.TeamRoleLead)
	h := newTestHandler(db)

	addBody := fmt.Sprintf(`{"user_id":%q}`, member.ID.Hex())
	req := testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members", addBody, testutil.UserFor(creator))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"newly_active":true`)

	// Adding the same member again is not newly active.
	req = testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members", addBody, testutil.UserFor(creator))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"newly_active":false`)

	// The list shows both active members.
	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/teams/"+team.ID.Hex()+"/members", testutil.UserFor(member))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeMemberList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Members []models.TeamMembership `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(resp.Members))
	}

	// Removal is a soft delete and repeats are no-ops.
	for range 2 {
		req = testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members/remove", addBody, testutil.UserFor(creator))
		req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
		rec = testutil.NewRecorder()
		h.HandleRemoveMember(rec.ResponseRecorder, req)
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"status":"removed"`)
	}

	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/teams/"+team.ID.Hex()+"/members?include_inactive=1", testutil.UserFor(creator))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec = testutil.NewRecorder()
	h.ServeMemberList(rec.ResponseRecorder, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Members) != 2 {
		t.Fatalf("got %d members including inactive, want 2", len(resp.Members))
	}
}

func TestHandleAddMember_Authorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	plain := f.CreateUser(ctx, "Plain Member", "plain@example.com")
	stranger := f.CreateUser(ctx, "Stranger", "stranger@example.com")
	team := f.CreateTeam(ctx, "Litigation", creator.ID)
	f.CreateMembership(ctx, team.ID, plain.ID, models.TeamRoleMember)
	h := newTestHandler(db)

	// A non-lead member cannot change the roster.
	body := fmt.Sprintf(`{"user_id":%q}`, stranger.ID.Hex())
	req := testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members", body, testutil.UserFor(plain))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAddMember(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)

	// Bad role and dangling user are client errors for a manager.
	for name, b := range map[string]string{
		"bad role":      fmt.Sprintf(`{"user_id":%q,"role":"owner"}`, stranger.ID.Hex()),
		"dangling user": fmt.Sprintf(`{"user_id":%q}`, primitive.NewObjectID().Hex()),
	} {
		req = testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members", b, testutil.UserFor(creator))
		req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
		rec = testutil.NewRecorder()
		h.HandleAddMember(rec.ResponseRecorder, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestHandleImportMembersCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Team Creator", "creator@example.com")
	a := f.CreateUser(ctx, "Import A", "a@example.com")
	f.CreateUser(ctx, "Import B", "b@example.com")
	team := f.CreateTeam(ctx, "Litigation", creator.ID)
	f.CreateMembership(ctx, team.ID, a.ID, models.TeamRoleMember)
	h := newTestHandler(db)

	csvBody := "email,role\na@example.com,member\nb@example.com,lead\nghost@example.com,member\n"
	req := testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members/import", csvBody, testutil.UserFor(creator))
	req.Header.Set("Content-Type", "text/csv")
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleImportMembersCSV(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var res struct {
		Added   int      `json:"added"`
		Skipped int      `json:"skipped"`
		Unknown []string `json:"unknown"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Added != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want added=1 skipped=1", res)
	}
	if len(res.Unknown) != 1 || res.Unknown[0] != "ghost@example.com" {
		t.Errorf("unknown = %v", res.Unknown)
	}

	// A file with invalid rows is rejected before any write.
	bad := "email,role\nc@example.com,owner\n"
	req = testutil.NewJSONRequest(http.MethodPost, "/teams/"+team.ID.Hex()+"/members/import", bad, testutil.UserFor(creator))
	req = testutil.WithChiURLParam(req, "id", team.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleImportMembersCSV(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, `"errors"`)
}
