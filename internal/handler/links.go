package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/link"
	"github.com/linkden/api/internal/urlnorm"
)

// ListLinks returns one page of the caller's links.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	q := r.URL.Query()

	opts := link.ListOptions{
		Query:      q.Get("q"),
		Cursor:     q.Get("cursor"),
		CategoryID: q.Get("category"),
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeValidationError, "limit must be an integer")
			return
		}
		opts.Limit = limit
	}
	switch q.Get("tab") {
	case "", "all":
	case "favorites":
		opts.FavoritesOnly = true
	default:
		writeError(w, http.StatusBadRequest, ErrCodeValidationError, "tab must be all or favorites")
		return
	}

	result, err := h.linkRepo.List(r.Context(), userID, opts)
	if err != nil {
		if errors.Is(err, link.ErrInvalidCursor) {
			writeError(w, http.StatusBadRequest, ErrCodeValidationError, "Unknown cursor")
			return
		}
		h.sink.Error(r.Context(), "links", "list", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"links":       result.Links,
		"next_cursor": result.NextCursor,
	})
}

type createLinkRequest struct {
	URL string `json:"url"`
	category.Selector
}

// CreateLink saves a URL, resolving its category and fetching page metadata.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body")
		return
	}

	created, err := h.linkService.Create(r.Context(), userID, auth.GetToken(r.Context()), link.CreateInput{
		URL:      req.URL,
		Category: req.Selector,
	})
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"link": created,
	})
}

func (h *Handler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, urlnorm.ErrEmpty):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "URL is required", "url")
	case errors.Is(err, urlnorm.ErrUnsafeScheme):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "URL scheme is not allowed", "url")
	case errors.Is(err, urlnorm.ErrMalformed):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "URL is not valid", "url")
	case errors.Is(err, urlnorm.ErrTooLong):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "URL is too long", "url")
	case errors.Is(err, category.ErrMissingName):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "Category name is required", "category_name")
	case errors.Is(err, category.ErrNameTooLong):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "Category name is too long", "category_name")
	case errors.Is(err, category.ErrInvalidCategoryID):
		writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "Category id is not valid", "category_id")
	case errors.Is(err, category.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "Category not found")
	default:
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
	}
}

type updateLinkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	category.Selector
}

// UpdateLink edits a link's title, description, or category. Absent fields
// keep their current value.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	linkID := chi.URLParam(r, "linkID")

	var req updateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body")
		return
	}

	existing, err := h.linkRepo.GetOwned(r.Context(), userID, linkID)
	if err != nil {
		if errors.Is(err, link.ErrLinkNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Link not found")
			return
		}
		h.sink.Error(r.Context(), "links", "update", err, "link_id", linkID)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	title := existing.Title
	if req.Title != nil {
		title, err = link.ValidateTitle(*req.Title)
		if err != nil {
			writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "Title is too long", "title")
			return
		}
	}

	description := existing.Description
	if req.Description != nil {
		description, err = link.ValidateDescription(*req.Description)
		if err != nil {
			writeFieldError(w, http.StatusBadRequest, ErrCodeValidationError, "Description is too long", "description")
			return
		}
	}

	categoryID := existing.CategoryID
	if req.Selector.Mode != "" {
		categoryID, err = h.linkService.ResolveCategory(r.Context(), userID, req.Selector)
		if err != nil {
			h.writeCreateError(w, r, err)
			return
		}
	}

	if err := h.linkRepo.UpdateMetadata(r.Context(), userID, linkID, title, description, categoryID); err != nil {
		h.sink.Error(r.Context(), "links", "update", err, "link_id", linkID)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	updated, err := h.linkRepo.GetOwned(r.Context(), userID, linkID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"link": updated,
	})
}

type favoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// SetFavorite toggles the favorite flag on a link.
func (h *Handler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	linkID := chi.URLParam(r, "linkID")

	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body")
		return
	}

	if err := h.linkRepo.SetFavorite(r.Context(), userID, linkID, req.IsFavorite); err != nil {
		if errors.Is(err, link.ErrLinkNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Link not found")
			return
		}
		h.sink.Error(r.Context(), "links", "favorite", err, "link_id", linkID)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteLink removes a link.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	linkID := chi.URLParam(r, "linkID")

	if err := h.linkRepo.Delete(r.Context(), userID, linkID); err != nil {
		if errors.Is(err, link.ErrLinkNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Link not found")
			return
		}
		h.sink.Error(r.Context(), "links", "delete", err, "link_id", linkID)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
