package signup_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	signupfeature "github.com/dalemusser/yieldhub/internal/app/features/signup"
	referralstore "github.com/dalemusser/yieldhub/internal/app/store/referrals"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/app/system/indexes"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.uber.org/zap"
)

func testSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-0123456789ABCDEF", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

func TestHandleSignup_CreatesUserAndSignsIn(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	h := signupfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := signupfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"full_name": "New Investor",
		"email":     "New@Example.com",
		"password":  "supersecret",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}

	created, err := userstore.New(db).GetByEmail(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("created user lookup failed: %v", err)
	}
	if created.ReferralCode == "" {
		t.Error("expected a referral code to be generated")
	}
	if created.PasswordHash == "supersecret" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if created.Role != "user" {
		t.Errorf("role: got %q, want user", created.Role)
	}
}

func TestHandleSignup_ReferralCodeLinksEdge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	referrer := fx.CreateInvestor(ctx, "Referrer", "referrer@example.com")

	h := signupfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := signupfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"full_name":     "Referred Friend",
		"email":         "friend@example.com",
		"password":      "supersecret",
		"referral_code": referrer.ReferralCode,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	friend, err := userstore.New(db).GetByEmail(ctx, "friend@example.com")
	if err != nil {
		t.Fatalf("friend lookup failed: %v", err)
	}

	edge, err := referralstore.New(db).ReferrerOf(ctx, friend.ID)
	if err != nil {
		t.Fatalf("ReferrerOf failed: %v", err)
	}
	if edge == nil || edge.ReferrerID != referrer.ID {
		t.Fatal("expected a referral edge pointing at the referrer")
	}
}

func TestHandleSignup_UnknownReferralCodeRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := signupfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := signupfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"full_name":     "Typo Victim",
		"email":         "typo@example.com",
		"password":      "supersecret",
		"referral_code": "NOSUCHCD",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestHandleSignup_ShortPasswordRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h := signupfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := signupfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"full_name": "Weak",
		"email":     "weak@example.com",
		"password":  "short",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestHandleSignup_DuplicateEmailConflicts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateInvestor(ctx, "Existing", "taken@example.com")

	// The unique index is what rejects the duplicate.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	h := signupfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := signupfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"full_name": "Imposter",
		"email":     "Taken@example.com",
		"password":  "supersecret",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("got %d, want 409: %s", rec.Code, rec.Body.String())
	}
}
