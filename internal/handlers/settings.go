package handlers

import (
	"encoding/json"
	"net/http"

	"finbuddy/internal/auth"
	"finbuddy/internal/middleware"
	"finbuddy/internal/validator"

	"github.com/jmoiron/sqlx"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password before replacing the hash.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePassword(req.NewPassword); err != nil {
		respondFieldErrors(w, http.StatusBadRequest, map[string]string{
			"new_password": validator.ErrShortPassword.Error(),
		})
		return
	}
	user, err := h.users.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		respondFieldErrors(w, http.StatusBadRequest, map[string]string{
			"current_password": "current password is incorrect",
		})
		return
	}
	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if _, err := h.users.UpdatePassword(r.Context(), tx, identity.ID, passwordHash); err != nil {
			return err
		}
		return h.audit.Log(r.Context(), tx, identity.ID, "user.password_change", "user", identity.ID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to change password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
