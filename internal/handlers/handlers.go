package handlers

import (
	"encoding/json"
	"net/http"

	"finbuddy/internal/config"
	"finbuddy/internal/db"
	"finbuddy/internal/session"
	"finbuddy/internal/websocket"
)

type Handler struct {
	cfg          config.Config
	sessions     *session.Authenticator
	txRunner     db.TxRunner
	users        UserStore
	accounts     AccountStore
	transactions TransactionStore
	categories   CategoryStore
	audit        AuditStore
	ledger       Ledger
	blog         BlogSource
	hub          *websocket.Hub
}

func New(cfg config.Config, sessions *session.Authenticator, txRunner db.TxRunner, users UserStore, accounts AccountStore, transactions TransactionStore, categories CategoryStore, audit AuditStore, ledger Ledger, blog BlogSource, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:          cfg,
		sessions:     sessions,
		txRunner:     txRunner,
		users:        users,
		accounts:     accounts,
		transactions: transactions,
		categories:   categories,
		audit:        audit,
		ledger:       ledger,
		blog:         blog,
		hub:          hub,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondFieldErrors(w http.ResponseWriter, status int, fields map[string]string) {
	respondJSON(w, status, map[string]any{"errors": fields})
}
