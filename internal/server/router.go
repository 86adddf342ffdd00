package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/handler"
	"github.com/linkden/api/internal/ratelimit"
)

// NewRouter creates the HTTP router with all routes registered. The limiter
// may be nil to disable rate limiting.
func NewRouter(h *handler.Handler, sessionStore *auth.SessionStore, limiter *ratelimit.Limiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         86400,
		}))
	}

	r.Use(auth.TokenMiddleware(sessionStore))
	r.Use(ratelimit.Middleware(limiter))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth)

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

// RequestLogger logs one line per request through the default slog logger.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logRequest(r, ww.Status(), ww.BytesWritten(), time.Since(start))
	})
}
