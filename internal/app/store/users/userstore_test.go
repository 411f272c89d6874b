package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSyncIdentity_CreateAndRefresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, created, err := store.SyncIdentity(ctx, "google-sub-123", "Jamie.Park@Example.com", "  Jamie   Park ", "google")
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if !created {
		t.Error("first sync should report created")
	}
	if u.Email != "jamie.park@example.com" {
		t.Errorf("email = %q, want normalized lowercase", u.Email)
	}
	if u.FullName != "Jamie Park" {
		t.Errorf("full name = %q, want collapsed whitespace", u.FullName)
	}
	if u.Status != "active" {
		t.Errorf("status = %q, want active", u.Status)
	}

	// A repeat sign-in with changed profile data refreshes the record
	// without creating a second user.
	u2, created, err := store.SyncIdentity(ctx, "google-sub-123", "jamie@example.com", "Jamie Park-Lee", "google")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if created {
		t.Error("second sync should not report created")
	}
	if u2.ID != u.ID {
		t.Errorf("second sync produced a new user %s, want %s", u2.ID.Hex(), u.ID.Hex())
	}
	if u2.Email != "jamie@example.com" || u2.FullName != "Jamie Park-Lee" {
		t.Errorf("refreshed user = %+v", u2)
	}
	if u2.AuthReturnID != "google-sub-123" {
		t.Errorf("auth_return_id changed to %q, must be immutable", u2.AuthReturnID)
	}

	// Unchanged profile data is a pure read.
	u3, created, err := store.SyncIdentity(ctx, "google-sub-123", "jamie@example.com", "Jamie Park-Lee", "google")
	if err != nil {
		t.Fatalf("third sync: %v", err)
	}
	if created || u3.ID != u.ID {
		t.Errorf("third sync: created=%v id=%s", created, u3.ID.Hex())
	}
}

func TestGetByEmail_Normalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	if _, err := store.CreateWithPassword(ctx, "Casey Soto", "casey@example.com", "hunter2hunter2"); err != nil {
		t.Fatalf("CreateWithPassword: %v", err)
	}

	u, err := store.GetByEmail(ctx, "  CASEY@Example.COM ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Email != "casey@example.com" {
		t.Errorf("email = %q", u.Email)
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("unknown email: err = %v, want ErrNotFound", err)
	}
}

func TestGetByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.CreateWithPassword(ctx, "Casey Soto", "casey@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("CreateWithPassword: %v", err)
	}

	u, err := store.VerifyPassword(ctx, "casey@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("good password: %v", err)
	}
	if u.ID != created.ID {
		t.Errorf("verified user = %s, want %s", u.ID.Hex(), created.ID.Hex())
	}

	// A bad password still identifies the matched user so the caller can
	// audit-log the attempt.
	u, err = store.VerifyPassword(ctx, "casey@example.com", "wrong")
	if !errors.Is(err, userstore.ErrWrongPassword) {
		t.Fatalf("bad password: err = %v, want ErrWrongPassword", err)
	}
	if u.ID != created.ID {
		t.Errorf("bad password returned user %s, want the matched user for auditing", u.ID.Hex())
	}

	if _, err := store.VerifyPassword(ctx, "nobody@example.com", "whatever"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("unknown email: err = %v, want ErrNotFound", err)
	}
}
