package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campuschat/campuschat/internal/app/features/auth"
	"github.com/campuschat/campuschat/internal/app/store/users"
	"github.com/campuschat/campuschat/internal/app/system/ratelimit"
	"github.com/campuschat/campuschat/internal/app/system/token"
	"github.com/campuschat/campuschat/internal/testutil"
)

func newTestHandler(t *testing.T) (*auth.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := auth.NewHandler(
		users.New(db),
		token.NewManager("test-secret", time.Hour, "campuschat"),
		ratelimit.NewLoginLimiter(),
		"thapar.edu",
		zap.NewNop(),
	)
	return handler, testutil.NewFixtures(t, db)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	var got struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return got.Token, got.User
}

func TestHandleRegister_Success(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Asha Verma",
		"email":    "asha@thapar.edu",
		"password": "correct-horse",
		"branch":   "Computer Science",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	tok, user := decodeAuthResponse(t, rec)
	if tok == "" {
		t.Error("expected a token in the response")
	}
	if user["branch"] != "computer science" {
		t.Errorf("expected normalized branch, got %q", user["branch"])
	}
	if _, ok := user["password_hash"]; ok {
		t.Error("password hash must not appear in the response")
	}

	claims, err := handler.Tokens.Verify(tok)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if claims.Email != "asha@thapar.edu" {
		t.Errorf("expected claims email asha@thapar.edu, got %q", claims.Email)
	}
}

func TestHandleRegister_RejectsForeignDomain(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Outsider",
		"email":    "someone@gmail.com",
		"password": "long-enough-pw",
		"branch":   "civil",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleRegister_RejectsUnknownBranch(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Asha Verma",
		"email":    "asha@thapar.edu",
		"password": "correct-horse",
		"branch":   "astrology",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleRegister_RejectsShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Asha Verma",
		"email":    "asha@thapar.edu",
		"password": "short",
		"branch":   "civil",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "First", "taken@thapar.edu", "password-one", "civil")

	rec := postJSON(t, handler.HandleRegister, "/api/auth/register", map[string]string{
		"name":     "Second",
		"email":    "Taken@Thapar.edu", // case differs, still the same account
		"password": "password-two",
		"branch":   "electrical",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Asha Verma", "asha@thapar.edu", "correct-horse", "computer science")

	rec := postJSON(t, handler.HandleLogin, "/api/auth/login", map[string]string{
		"email":    "asha@thapar.edu",
		"password": "correct-horse",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	tok, user := decodeAuthResponse(t, rec)
	if tok == "" {
		t.Error("expected a token in the response")
	}
	if user["name"] != "Asha Verma" {
		t.Errorf("expected user name in response, got %q", user["name"])
	}
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Asha Verma", "asha@thapar.edu", "correct-horse", "computer science")

	rec := postJSON(t, handler.HandleLogin, "/api/auth/login", map[string]string{
		"email":    "asha@thapar.edu",
		"password": "wrong-password",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postJSON(t, handler.HandleLogin, "/api/auth/login", map[string]string{
		"email":    "nobody@thapar.edu",
		"password": "whatever-pw",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	// Unknown email and wrong password must be indistinguishable.
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] != "invalid email or password" {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestHandleLogin_RateLimited(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Asha Verma", "asha@thapar.edu", "correct-horse", "computer science")

	body := map[string]string{"email": "asha@thapar.edu", "password": "wrong-password"}
	var last *httptest.ResponseRecorder
	for i := 0; i < 25; i++ {
		last = postJSON(t, handler.HandleLogin, "/api/auth/login", body)
		if last.Code == http.StatusTooManyRequests {
			return
		}
	}
	t.Fatalf("expected a %d after repeated failures, last status %d", http.StatusTooManyRequests, last.Code)
}

func TestHandleCheckEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Asha Verma", "asha@thapar.edu", "correct-horse", "computer science")

	cases := []struct {
		email string
		want  bool
	}{
		{"asha@thapar.edu", true},
		{"ASHA@Thapar.edu", true},
		{"ghost@thapar.edu", false},
	}
	for _, tc := range cases {
		rec := postJSON(t, handler.HandleCheckEmail, "/api/auth/check-email", map[string]string{"email": tc.email})
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status %d, got %d", tc.email, http.StatusOK, rec.Code)
		}
		var got struct {
			Registered bool `json:"registered"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if got.Registered != tc.want {
			t.Errorf("%s: registered = %v, want %v", tc.email, got.Registered, tc.want)
		}
	}
}
