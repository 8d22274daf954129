package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/api/session"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// signIn issues a session cookie for the given user and copies it onto a request
func signIn(t *testing.T, sessions *session.Manager, userID uint, req *http.Request) {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sessions.SignIn(rec, httptest.NewRequest(http.MethodGet, "/", nil), userID); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
}

func TestRequireOwner(t *testing.T) {
	sessions := session.NewManager("test-secret")
	called := false
	handler := RequireOwner(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		called = true
	}, sessions, quietLogger())
	params := httprouter.Params{{Key: "id", Value: "7"}}

	// No session: 401
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/users/7/movies", nil), params)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session, got %d", rec.Code)
	}
	if called {
		t.Fatal("Handler must not run without a session")
	}

	// Session for a different user: 403
	req := httptest.NewRequest(http.MethodGet, "/api/users/7/movies", nil)
	signIn(t, sessions, 8, req)
	rec = httptest.NewRecorder()
	handler(rec, req, params)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for mismatched user, got %d", rec.Code)
	}
	if called {
		t.Fatal("Handler must not run for a mismatched user")
	}

	// Matching session: pass through
	req = httptest.NewRequest(http.MethodGet, "/api/users/7/movies", nil)
	signIn(t, sessions, 7, req)
	rec = httptest.NewRecorder()
	handler(rec, req, params)
	if !called {
		t.Error("Handler should run for the owning user")
	}
}

func TestRequireLogin(t *testing.T) {
	sessions := session.NewManager("test-secret")
	called := false
	handler := RequireLogin(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		called = true
	}, sessions, quietLogger())

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/movies/1/reviews", nil), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without session, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/movies/1/reviews", nil)
	signIn(t, sessions, 3, req)
	rec = httptest.NewRecorder()
	handler(rec, req, nil)
	if !called {
		t.Error("Handler should run for a logged-in user")
	}
}
