package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"finbuddy/internal/middleware"
	"finbuddy/internal/store"
	"finbuddy/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const defaultCategoryColor = "#2563EB"

type categoryRequest struct {
	Name              string `json:"name"`
	Kind              string `json:"kind"`
	Color             string `json:"color"`
	MonthlyLimitCents *int64 `json:"monthly_limit_cents"`
}

func (r categoryRequest) validate() (store.CategoryInput, bool) {
	name := strings.TrimSpace(r.Name)
	if name == "" || validator.ValidateKind(r.Kind) != nil {
		return store.CategoryInput{}, false
	}
	color := strings.TrimSpace(r.Color)
	if color == "" {
		color = defaultCategoryColor
	}
	if validator.ValidateHexColor(color) != nil {
		return store.CategoryInput{}, false
	}
	if r.MonthlyLimitCents != nil && *r.MonthlyLimitCents < 0 {
		return store.CategoryInput{}, false
	}
	// A monthly limit only means something for expense categories.
	limit := r.MonthlyLimitCents
	if r.Kind == "income" {
		limit = nil
	}
	return store.CategoryInput{
		Name:              name,
		Kind:              r.Kind,
		Color:             color,
		MonthlyLimitCents: limit,
	}, true
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.categories.ListByUser(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": rows})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, ok := req.validate()
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	input.ID = uuid.NewString()
	input.UserID = identity.ID
	if err := h.categories.Create(r.Context(), input); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create category")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"id": input.ID})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	input, ok := req.validate()
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	input.ID = chi.URLParam(r, "id")
	input.UserID = identity.ID
	affected, err := h.categories.Update(r.Context(), input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update category")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "category_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	affected, err := h.categories.Delete(r.Context(), chi.URLParam(r, "id"), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete category")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "category_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
