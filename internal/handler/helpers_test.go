package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/link"
	"github.com/linkden/api/internal/ogfetch"
	"github.com/linkden/api/internal/testutil"
	"github.com/linkden/api/internal/user"
)

// stubOG is a metadata client with a fixed outcome.
type stubOG struct {
	metadata *ogfetch.Metadata
	err      error
}

func (s *stubOG) Fetch(ctx context.Context, url, token string) (*ogfetch.Metadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.metadata != nil {
		return s.metadata, nil
	}
	return &ogfetch.Metadata{URL: url}, nil
}

// testHandler creates a fully-wired Handler backed by an in-memory SQLite
// database, with metadata fetching stubbed out.
func testHandler(t *testing.T, og ogfetch.Client) (*Handler, *sql.DB) {
	t.Helper()

	db := testutil.TestDB(t)

	if og == nil {
		og = &stubOG{}
	}

	linkRepo := link.NewRepository(db)
	categoryRepo := category.NewRepository(db)
	resolver := category.NewResolver(categoryRepo)
	linkService := link.NewService(linkRepo, resolver, og, time.Second, nil)
	sessionStore := auth.NewSessionStore(db, 24*time.Hour)

	h := New(Dependencies{
		LinkService:  linkService,
		LinkRepo:     linkRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     user.NewRepository(db),
		SessionStore: sessionStore,
	})

	return h, db
}

// testRouter mounts the handler under the real route tree so chi URL params
// resolve in tests.
func testRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/links", h.ListLinks)
		r.Post("/links", h.CreateLink)
		r.Patch("/links/{linkID}", h.UpdateLink)
		r.Delete("/links/{linkID}", h.DeleteLink)
		r.Put("/links/{linkID}/favorite", h.SetFavorite)
		r.Get("/categories", h.ListCategories)
		r.Delete("/categories/{categoryID}", h.DeleteCategory)
		r.Post("/categories/delete", h.DeleteCategories)
		r.Delete("/account", h.DeleteAccount)
	})
	return r
}

// doRequest performs a request as the given user and decodes the JSON body.
func doRequest(t *testing.T, router http.Handler, userID, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		ctx := auth.WithUserID(req.Context(), userID)
		ctx = auth.WithToken(ctx, "test-token")
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}
