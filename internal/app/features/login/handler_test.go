// internal/app/features/login/handler_test.go
package login_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/lexhub/internal/app/features/login"
	"github.com/dalemusser/lexhub/internal/app/store/audit"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/dalemusser/lexhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *login.Handler {
	t.Helper()
	logger := zap.NewNop()
	if err := auth.InitSessionStore("0123456789abcdef0123456789abcdef", "", false, logger); err != nil {
		t.Fatalf("InitSessionStore: %v", err)
	}
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Access: "db"})
	return login.NewHandler(db, auditLog, logger)
}

// postLogin sends a login body from the given client IP. Distinct IPs keep
// the per-IP limiter out of tests that target the per-email limiter.
func postLogin(h *login.Handler, body, ip string) *testutil.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":4411"
	rec := testutil.NewRecorder()
	h.HandleLoginPost(rec.ResponseRecorder, req)
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	if _, err := userstore.New(db).CreateWithPassword(ctx, "Pat Lawyer", "pat@example.com", "correct horse"); err != nil {
		t.Fatalf("CreateWithPassword: %v", err)
	}

	rec := postLogin(h, `{"email":"Pat@Example.com","password":"correct horse"}`, "203.0.113.1")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"email":"pat@example.com"`)
}

func TestHandleLoginPost_UniformRejection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	f := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	if _, err := userstore.New(db).CreateWithPassword(ctx, "Pat Lawyer", "pat@example.com", "correct horse"); err != nil {
		t.Fatalf("CreateWithPassword: %v", err)
	}
	f.CreateDisabledUser(ctx, "Gone User", "gone@example.com")

	// Unknown email, wrong password, and disabled account all produce
	// the same body; only the audit trail tells them apart.
	cases := map[string]string{
		"unknown email":  `{"email":"nobody@example.com","password":"whatever"}`,
		"wrong password": `{"email":"pat@example.com","password":"incorrect"}`,
		"disabled user":  `{"email":"gone@example.com","password":"anything"}`,
	}
	for name, body := range cases {
		rec := postLogin(h, body, "203.0.113.2")
		rec.AssertStatus(t, http.StatusUnauthorized)
		rec.AssertContains(t, `"error":"invalid email or password"`)
		if strings.Contains(rec.Body.String(), "disabled") || strings.Contains(rec.Body.String(), "not found") {
			t.Errorf("%s: rejection body leaks the failure mode: %s", name, rec.Body.String())
		}
	}
}

func TestHandleLoginPost_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	rec := postLogin(h, `not json`, "203.0.113.3")
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = postLogin(h, `{"email":"pat@example.com"}`, "203.0.113.3")
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	h := newTestHandler(t, db)

	if _, err := userstore.New(db).CreateWithPassword(ctx, "Pat Lawyer", "pat@example.com", "correct horse"); err != nil {
		t.Fatalf("CreateWithPassword: %v", err)
	}

	// Five failures exhaust the per-email window; spreading them over
	// distinct IPs shows the email axis alone is enough to block.
	body := `{"email":"pat@example.com","password":"incorrect"}`
	for i := 0; i < 5; i++ {
		ip := fmt.Sprintf("203.0.113.1%d", i)
		postLogin(h, body, ip).AssertStatus(t, http.StatusUnauthorized)
	}

	rec := postLogin(h, `{"email":"pat@example.com","password":"correct horse"}`, "203.0.113.20")
	rec.AssertStatus(t, http.StatusTooManyRequests)
	rec.AssertContains(t, "Too many login attempts")
}
