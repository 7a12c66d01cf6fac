package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbuddy/internal/models"
	"finbuddy/internal/store"
)

func TestHomeSummary(t *testing.T) {
	ensured := false
	handler := newTestHandler(testHandlerDeps{
		accounts: stubAccountStore{
			listByUserFn: func(context.Context, string) ([]models.Account, error) {
				return []models.Account{
					{ID: "acc-1", Kind: "cash", Name: "Cash", BalanceCents: 50000},
					{ID: "acc-2", Kind: "card", Name: "Card", BalanceCents: 25000},
				}, nil
			},
		},
		transactions: stubTransactionStore{
			monthTotalsFn: func(context.Context, string, string, string) ([]store.KindTotal, error) {
				return []store.KindTotal{
					{Kind: "income", TotalCents: 300000},
					{Kind: "expense", TotalCents: 120000},
				}, nil
			},
			listRecentFn: func(_ context.Context, _ string, limit int) ([]store.TransactionWithAccount, error) {
				if limit != 5 {
					t.Fatalf("expected recent limit of 5, got %d", limit)
				}
				return nil, nil
			},
		},
		ledger: stubLedger{
			ensureFn: func(context.Context, string) error {
				ensured = true
				return nil
			},
		},
	})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/home", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.Home(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !ensured {
		t.Fatalf("default accounts must be provisioned before listing")
	}
	var payload struct {
		Summary map[string]any `json:"summary"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Summary["balance_cents"].(float64) != 75000 {
		t.Fatalf("unexpected balance: %v", payload.Summary["balance_cents"])
	}
	if payload.Summary["net_cents"].(float64) != 180000 {
		t.Fatalf("unexpected net: %v", payload.Summary["net_cents"])
	}
}

func TestMonthlyReportJoinsLimits(t *testing.T) {
	limit := int64(40000)
	handler := newTestHandler(testHandlerDeps{
		transactions: stubTransactionStore{
			expenseByCategoryFn: func(_ context.Context, _, start, end string) ([]store.CategoryTotal, error) {
				if start != "2024-03-01" || end != "2024-04-01" {
					t.Fatalf("unexpected range: %s..%s", start, end)
				}
				return []store.CategoryTotal{
					{Category: "Groceries", TotalCents: 45000},
					{Category: "Misc", TotalCents: 700},
				}, nil
			},
		},
		categories: stubCategoryStore{
			listByUserFn: func(context.Context, string) ([]models.Category, error) {
				return []models.Category{
					{Name: "Groceries", Kind: "expense", Color: "#FF8800", MonthlyLimitCents: &limit},
				}, nil
			},
		},
	})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/reports?month=2024-03", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.MonthlyReport(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Categories []map[string]any `json:"categories"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Categories) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(payload.Categories))
	}
	groceries := payload.Categories[0]
	if groceries["over_limit"] != true || groceries["color"] != "#FF8800" {
		t.Fatalf("unexpected groceries row: %#v", groceries)
	}
	misc := payload.Categories[1]
	if _, hasLimit := misc["monthly_limit_cents"]; hasLimit {
		t.Fatalf("misc row must not carry a limit: %#v", misc)
	}
}

func TestMonthlyReportInvalidMonth(t *testing.T) {
	handler := newTestHandler(testHandlerDeps{})
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/reports?month=March", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.MonthlyReport(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMonthRange(t *testing.T) {
	start, end := monthRange(time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))
	if start != "2024-12-01" || end != "2025-01-01" {
		t.Fatalf("unexpected range: %s..%s", start, end)
	}
}
