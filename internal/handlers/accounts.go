package handlers

import (
	"net/http"

	"finbuddy/internal/middleware"
	"finbuddy/internal/models"
	"finbuddy/internal/money"
)

// ListAccounts returns the caller's accounts, provisioning the default cash
// and card accounts first so a fresh user always sees both.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.ledger.EnsureDefaultAccounts(r.Context(), identity.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to provision accounts")
		return
	}
	accounts, err := h.accounts.ListByUser(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load accounts")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"accounts": accountViews(accounts)})
}

func accountViews(accounts []models.Account) []map[string]any {
	views := make([]map[string]any, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, map[string]any{
			"id":            account.ID,
			"kind":          account.Kind,
			"name":          account.Name,
			"balance_cents": account.BalanceCents,
			"balance":       money.FromCents(account.BalanceCents),
			"created_at":    account.CreatedAt,
		})
	}
	return views
}
