package handlers

import (
	"net/http"
	"time"

	"finbuddy/internal/middleware"
	"finbuddy/internal/models"
	"finbuddy/internal/money"
)

// Home returns the dashboard summary: accounts, total balance, this month's
// income/expense/net and the five most recent transactions.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
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
	var balanceCents int64
	for _, account := range accounts {
		balanceCents += account.BalanceCents
	}
	start, end := monthRange(time.Now().UTC())
	totals, err := h.transactions.MonthTotals(r.Context(), identity.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load summary")
		return
	}
	var incomeCents, expenseCents int64
	for _, total := range totals {
		switch total.Kind {
		case models.KindIncome:
			incomeCents = total.TotalCents
		case models.KindExpense:
			expenseCents = total.TotalCents
		}
	}
	recent, err := h.transactions.ListRecent(r.Context(), identity.ID, 5)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"accounts": accountViews(accounts),
		"summary": map[string]any{
			"month_start":         start,
			"month_end_exclusive": end,
			"income_cents":        incomeCents,
			"expense_cents":       expenseCents,
			"net_cents":           incomeCents - expenseCents,
			"balance_cents":       balanceCents,
		},
		"recent_transactions": transactionViews(recent),
	})
}

// MonthlyReport breaks the month's spending down per category label, joined
// with the caller's budget limits where a category of the same name exists.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	reference := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_month")
			return
		}
		reference = parsed
	}
	start, end := monthRange(reference)
	spent, err := h.transactions.ExpenseByCategory(r.Context(), identity.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load report")
		return
	}
	categories, err := h.categories.ListByUser(r.Context(), identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}
	limits := make(map[string]models.Category, len(categories))
	for _, category := range categories {
		limits[category.Name] = category
	}
	rows := make([]map[string]any, 0, len(spent))
	for _, entry := range spent {
		row := map[string]any{
			"category":    entry.Category,
			"spent_cents": entry.TotalCents,
			"spent":       money.FromCents(entry.TotalCents),
		}
		if category, ok := limits[entry.Category]; ok {
			row["color"] = category.Color
			if category.MonthlyLimitCents != nil {
				row["monthly_limit_cents"] = *category.MonthlyLimitCents
				row["over_limit"] = entry.TotalCents > *category.MonthlyLimitCents
			}
		}
		rows = append(rows, row)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"month_start":         start,
		"month_end_exclusive": end,
		"categories":          rows,
	})
}

// monthRange returns the UTC month bounds of t as [start, end) date strings.
func monthRange(t time.Time) (string, string) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}
