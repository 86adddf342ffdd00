package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
)

// ListCategories returns the caller's categories ordered by name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	categories, err := h.categoryRepo.ListForUser(r.Context(), userID)
	if err != nil {
		h.sink.Error(r.Context(), "categories", "list", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// DeleteCategory removes one category and detaches its links.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	categoryID := chi.URLParam(r, "categoryID")

	if err := h.categoryRepo.Delete(r.Context(), userID, categoryID); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Category not found")
			return
		}
		h.sink.Error(r.Context(), "categories", "delete", err, "category_id", categoryID)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type deleteCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

// DeleteCategories removes a batch of categories in one transaction,
// detaching their links. Ids the caller does not own are skipped.
func (h *Handler) DeleteCategories(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	var req deleteCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid request body")
		return
	}
	if len(req.CategoryIDs) == 0 {
		writeError(w, http.StatusBadRequest, ErrCodeValidationError, "category_ids is required")
		return
	}

	deleted, err := h.categoryRepo.DeleteMany(r.Context(), userID, req.CategoryIDs)
	if err != nil {
		h.sink.Error(r.Context(), "categories", "delete-many", err, "requested", len(req.CategoryIDs))
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_count": deleted,
	})
}
