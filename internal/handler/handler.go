// Package handler exposes the HTTP API: links, categories, account.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/link"
	"github.com/linkden/api/internal/telemetry"
	"github.com/linkden/api/internal/user"
)

type Handler struct {
	linkService  *link.Service
	linkRepo     *link.Repository
	categoryRepo *category.Repository
	userRepo     *user.Repository
	sessionStore *auth.SessionStore
	sink         *telemetry.Sink
}

// Dependencies holds all dependencies for the Handler.
type Dependencies struct {
	LinkService  *link.Service
	LinkRepo     *link.Repository
	CategoryRepo *category.Repository
	UserRepo     *user.Repository
	SessionStore *auth.SessionStore
	Sink         *telemetry.Sink
}

func New(deps Dependencies) *Handler {
	sink := deps.Sink
	if sink == nil {
		sink = telemetry.NewSink(nil)
	}
	return &Handler{
		linkService:  deps.LinkService,
		linkRepo:     deps.LinkRepo,
		categoryRepo: deps.CategoryRepo,
		userRepo:     deps.UserRepo,
		sessionStore: deps.SessionStore,
		sink:         sink,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// writeFieldError is writeError with the offending request field named, so
// clients can attach the message to the right input.
func writeFieldError(w http.ResponseWriter, status int, code, message, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
			"field":   field,
		},
	})
}
