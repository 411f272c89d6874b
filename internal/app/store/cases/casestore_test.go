package casestore_test

import (
	"errors"
	"testing"

	casestore "github.com/dalemusser/lexhub/internal/app/store/cases"
	"github.com/dalemusser/lexhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Case Creator", "creator@example.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@example.com")

	store := casestore.New(db)
	lc := casestore.NewCase("Estate of Doe", "Probate matter", creator.ID, assignee.ID)
	if err := store.Insert(ctx, lc); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := store.GetByID(ctx, lc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Estate of Doe" || got.Status != "active" {
		t.Errorf("case = %+v", got)
	}
	if got.TitleCI == "" {
		t.Error("folded title missing")
	}
	if got.CreatorID != creator.ID || got.AssignedUserID != assignee.ID {
		t.Errorf("case parties = creator %s assigned %s", got.CreatorID.Hex(), got.AssignedUserID.Hex())
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, casestore.ErrNotFound) {
		t.Errorf("missing case: err = %v, want ErrNotFound", err)
	}
}

func TestListAndClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)

	creator := f.CreateUser(ctx, "Case Creator", "creator@example.com")
	open := f.CreateBareCase(ctx, "Open Matter", creator.ID, creator.ID)
	closing := f.CreateBareCase(ctx, "Closing Matter", creator.ID, creator.ID)

	store := casestore.New(db)
	if err := store.Close(ctx, closing.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cases, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != open.ID {
		t.Errorf("active cases = %+v, want only the open matter", cases)
	}

	// The closed case is still readable directly.
	got, err := store.GetByID(ctx, closing.ID)
	if err != nil {
		t.Fatalf("GetByID closed: %v", err)
	}
	if got.Status != "closed" {
		t.Errorf("status = %q, want closed", got.Status)
	}

	if err := store.Close(ctx, primitive.NewObjectID()); !errors.Is(err, casestore.ErrNotFound) {
		t.Errorf("close missing: err = %v, want ErrNotFound", err)
	}
}
