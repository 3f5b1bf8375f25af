package login_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	loginfeature "github.com/dalemusser/yieldhub/internal/app/features/login"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/dalemusser/yieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-0123456789ABCDEF", "test-session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

func createAccount(t *testing.T, ctx context.Context, db *mongo.Database, email, password, status string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user, err := userstore.New(db).Create(ctx, models.User{
		FullName:     "Login Tester",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       status,
		ReferralCode: userstore.NewReferralCode(),
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return user
}

func TestHandleLogin_SuccessSetsSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	createAccount(t, ctx, db, "investor@example.com", "supersecret", "active")

	h := loginfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := loginfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email":    "Investor@Example.com",
		"password": "supersecret",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie to be set")
	}
}

func TestHandleLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	createAccount(t, ctx, db, "investor@example.com", "supersecret", "active")

	h := loginfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := loginfeature.Routes(h)

	attempts := []map[string]string{
		{"email": "investor@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "supersecret"},
	}

	var bodies []string
	for _, body := range attempts {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %v: got %d, want 401", body, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}
	if bodies[0] != bodies[1] {
		t.Errorf("failure responses differ, which leaks account existence:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestHandleLogin_DisabledAccountForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	createAccount(t, ctx, db, "banned@example.com", "supersecret", "disabled")

	h := loginfeature.NewHandler(db, testSessionManager(t), nil, zap.NewNop())
	router := loginfeature.Routes(h)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email":    "banned@example.com",
		"password": "supersecret",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403: %s", rec.Code, rec.Body.String())
	}
}
