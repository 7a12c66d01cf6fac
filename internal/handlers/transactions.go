package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finbuddy/internal/middleware"
	"finbuddy/internal/money"
	"finbuddy/internal/services"
	"finbuddy/internal/store"

	"github.com/go-chi/chi/v5"
)

type transactionRequest struct {
	Kind      string  `json:"kind"`
	Amount    string  `json:"amount"`
	AccountID string  `json:"account_id"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Name      string  `json:"name"`
	Note      *string `json:"note"`
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.transactions.ListByUser(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactionViews(rows)})
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountCents, err := parseAmountCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	created, err := h.ledger.CreateTransaction(r.Context(), services.CreateTransactionRequest{
		UserID:      identity.ID,
		AccountID:   req.AccountID,
		Kind:        req.Kind,
		AmountCents: amountCents,
		Category:    req.Category,
		Date:        req.Date,
		Name:        req.Name,
		Note:        normalizeNote(req.Note),
	})
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"transaction": created})
}

func (h *Handler) EditTransaction(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transactionID := chi.URLParam(r, "id")
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amountCents, err := parseAmountCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	err = h.ledger.EditTransaction(r.Context(), services.EditTransactionRequest{
		UserID:        identity.ID,
		TransactionID: transactionID,
		AccountID:     req.AccountID,
		Kind:          req.Kind,
		AmountCents:   amountCents,
		Category:      req.Category,
		Date:          req.Date,
		Name:          req.Name,
		Note:          normalizeNote(req.Note),
	})
	if err != nil {
		respondLedgerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func respondLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, "invalid_payload")
	case errors.Is(err, services.ErrInvalidAccount):
		respondError(w, http.StatusBadRequest, "invalid_account")
	case errors.Is(err, services.ErrTransactionNotFound):
		respondError(w, http.StatusNotFound, "transaction_not_found")
	default:
		respondError(w, http.StatusInternalServerError, "transaction_failed")
	}
}

func normalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func transactionViews(rows []store.TransactionWithAccount) []map[string]any {
	views := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		views = append(views, map[string]any{
			"id":           row.ID,
			"account_id":   row.AccountID,
			"account_name": row.AccountName,
			"account_kind": row.AccountKind,
			"kind":         row.Kind,
			"amount_cents": row.AmountCents,
			"amount":       money.FromCents(row.AmountCents),
			"category":     row.Category,
			"date":         row.Date,
			"name":         row.Name,
			"note":         row.Note,
			"created_at":   row.CreatedAt,
		})
	}
	return views
}
