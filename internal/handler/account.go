package handler

import (
	"errors"
	"net/http"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/user"
)

// DeleteAccount removes the caller's links, categories, sessions, and user
// row in one transaction.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	report, err := h.userRepo.DeleteAccountData(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, ErrCodeNotFound, "Account not found")
			return
		}
		h.sink.Error(r.Context(), "account", "delete", err)
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, "An error occurred")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted_links":      report.Links,
		"deleted_categories": report.Categories,
	})
}
