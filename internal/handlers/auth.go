package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finbuddy/internal/auth"
	"finbuddy/internal/middleware"
	"finbuddy/internal/services"
	"finbuddy/internal/session"
	"finbuddy/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp creates the user together with its default accounts and starts a
// session. Duplicate email and short password are reported as separate field
// errors, both at once when both apply, so the form can show both.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)

	fields := map[string]string{}
	if err := validator.ValidateEmail(email); err != nil {
		fields["email"] = "invalid email"
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		fields["password"] = validator.ErrShortPassword.Error()
	}
	if fields["email"] == "" {
		if _, err := h.users.GetByEmail(r.Context(), email); err == nil {
			fields["email"] = "email already in use"
		} else if !errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusInternalServerError, "signup failed")
			return
		}
	}
	if len(fields) > 0 {
		status := http.StatusBadRequest
		if fields["email"] == "email already in use" {
			status = http.StatusConflict
		}
		respondFieldErrors(w, status, fields)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	userID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.users.Create(r.Context(), tx, userID, email, passwordHash, name); err != nil {
			return err
		}
		if err := services.ProvisionDefaultAccounts(r.Context(), tx, h.accounts, userID); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, userID, "user.signup", "user", userID, string(data))
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			respondFieldErrors(w, http.StatusConflict, map[string]string{"email": "email already in use"})
			return
		}
		respondError(w, http.StatusInternalServerError, "signup failed")
		return
	}
	identity := session.Identity{ID: userID, Email: email, Name: name}
	h.startSession(w, identity, http.StatusCreated)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn never reveals whether the email or the password was wrong.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "email or password are incorrect")
			return
		}
		respondError(w, http.StatusInternalServerError, "signin failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "email or password are incorrect")
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		data, _ := json.Marshal(map[string]string{
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, user.ID, "user.signin", "user", user.ID, string(data))
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "signin failed")
		return
	}
	identity := session.Identity{ID: user.ID, Email: user.Email, Name: user.Name}
	h.startSession(w, identity, http.StatusOK)
}

// SignOut clears the session cookie. Idempotent: no active session is fine.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": identity})
}

func (h *Handler) startSession(w http.ResponseWriter, identity session.Identity, status int) {
	token, expiry, err := h.sessions.Issue(identity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	h.sessions.SetCookie(w, token, expiry)
	respondJSON(w, status, map[string]any{"user": identity, "expires_at": expiry.UTC()})
}
