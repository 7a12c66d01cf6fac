package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"finbuddy/internal/models"
	"finbuddy/internal/services"
	"finbuddy/internal/store"

	"github.com/go-chi/chi/v5"
)

func TestCreateTransactionSuccess(t *testing.T) {
	var got services.CreateTransactionRequest
	handler := newTestHandler(testHandlerDeps{
		ledger: stubLedger{
			createFn: func(_ context.Context, req services.CreateTransactionRequest) (models.Transaction, error) {
				got = req
				return models.Transaction{ID: "tx-1", AmountCents: req.AmountCents, Kind: req.Kind}, nil
			},
		},
	})

	body := []byte(`{"kind":"expense","amount":"12.50","account_id":"acc-1","category":"Groceries","date":"2024-03-10","name":"Market","note":"  weekly run  "}`)
	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.CreateTransaction(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.UserID != "user-1" || got.AmountCents != 1250 || got.AccountID != "acc-1" {
		t.Fatalf("unexpected request: %#v", got)
	}
	if got.Note == nil || *got.Note != "weekly run" {
		t.Fatalf("note not trimmed: %#v", got.Note)
	}
}

func TestCreateTransactionRejectsBadAmounts(t *testing.T) {
	handler := newTestHandler(testHandlerDeps{
		ledger: stubLedger{
			createFn: func(context.Context, services.CreateTransactionRequest) (models.Transaction, error) {
				t.Fatalf("ledger must not be called for a bad amount")
				return models.Transaction{}, nil
			},
		},
	})

	for _, amount := range []string{"0", "-5", "abc", "1.005", ""} {
		body, _ := json.Marshal(map[string]any{
			"kind": "expense", "amount": amount, "account_id": "acc-1",
			"category": "Food", "date": "2024-03-10", "name": "Lunch",
		})
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewReader(body)), "user-1")
		rr := httptest.NewRecorder()
		handler.CreateTransaction(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("amount %q: expected 400, got %d", amount, rr.Code)
		}
	}
}

func TestCreateTransactionErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrInvalidAccount, http.StatusBadRequest},
		{services.ErrTransactionNotFound, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		handler := newTestHandler(testHandlerDeps{
			ledger: stubLedger{
				createFn: func(context.Context, services.CreateTransactionRequest) (models.Transaction, error) {
					return models.Transaction{}, tc.err
				},
			},
		})
		body := []byte(`{"kind":"expense","amount":"1.00","account_id":"acc-1","category":"Food","date":"2024-03-10","name":"Lunch"}`)
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewReader(body)), "user-1")
		rr := httptest.NewRecorder()
		handler.CreateTransaction(rr, req)
		if rr.Code != tc.status {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.status, rr.Code)
		}
	}
}

func TestEditTransactionRoutesID(t *testing.T) {
	var got services.EditTransactionRequest
	handler := newTestHandler(testHandlerDeps{
		ledger: stubLedger{
			editFn: func(_ context.Context, req services.EditTransactionRequest) error {
				got = req
				return nil
			},
		},
	})

	body := []byte(`{"kind":"income","amount":"300.00","account_id":"acc-2","category":"Salary","date":"2024-03-01","name":"Bonus"}`)
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/transactions/tx-42", bytes.NewReader(body)), "user-1")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "tx-42")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rr := httptest.NewRecorder()
	handler.EditTransaction(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.TransactionID != "tx-42" || got.AmountCents != 30000 || got.Kind != "income" {
		t.Fatalf("unexpected request: %#v", got)
	}
}

func TestEditTransactionNotFound(t *testing.T) {
	handler := newTestHandler(testHandlerDeps{
		ledger: stubLedger{
			editFn: func(context.Context, services.EditTransactionRequest) error {
				return services.ErrTransactionNotFound
			},
		},
	})

	body := []byte(`{"kind":"expense","amount":"1.00","account_id":"acc-1","category":"Food","date":"2024-03-10","name":"Lunch"}`)
	req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/transactions/ghost", bytes.NewReader(body)), "user-1")
	rr := httptest.NewRecorder()
	handler.EditTransaction(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestListTransactions(t *testing.T) {
	handler := newTestHandler(testHandlerDeps{
		transactions: stubTransactionStore{
			listByUserFn: func(_ context.Context, userID string) ([]store.TransactionWithAccount, error) {
				if userID != "user-1" {
					t.Fatalf("unexpected user: %s", userID)
				}
				return []store.TransactionWithAccount{{
					Transaction: models.Transaction{ID: "tx-1", Kind: "expense", AmountCents: 1250, Category: "Groceries"},
					AccountName: "Cash", AccountKind: "cash",
				}}, nil
			},
		},
	})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/transactions", nil), "user-1")
	rr := httptest.NewRecorder()
	handler.ListTransactions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Transactions []map[string]any `json:"transactions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(payload.Transactions))
	}
	row := payload.Transactions[0]
	if row["amount"] != "12.50" || row["account_name"] != "Cash" {
		t.Fatalf("unexpected row: %#v", row)
	}
}
