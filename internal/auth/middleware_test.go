package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/linkden/api/internal/testutil"
)

func TestTokenMiddleware_ResolvesBearerToken(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, 24*time.Hour)

	token, err := store.Create(userID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var gotUserID, gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotToken = GetToken(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	TokenMiddleware(store)(next).ServeHTTP(httptest.NewRecorder(), req)

	if gotUserID != userID {
		t.Errorf("user id = %q, want %q", gotUserID, userID)
	}
	if gotToken != token {
		t.Errorf("token = %q, want %q", gotToken, token)
	}
}

func TestTokenMiddleware_PassesAnonymousThrough(t *testing.T) {
	db := testutil.TestDB(t)
	store := NewSessionStore(db, 24*time.Hour)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if GetUserID(r.Context()) != "" {
			t.Error("anonymous request should carry no user id")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	TokenMiddleware(store)(next).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("middleware must not block anonymous requests")
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-1"))
	RequireAuth(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("authenticated status = %d, want 204", rec.Code)
	}
}
