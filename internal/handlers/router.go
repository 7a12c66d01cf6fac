package handlers

import (
	"net/http"

	"finbuddy/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// protectedPrefixes is the fixed allowlist of paths behind the session gate.
// Sign-out is deliberately left open so it stays idempotent without a session.
func (h *Handler) protectedPrefixes() []string {
	prefixes := []string{
		"/api/home",
		"/api/accounts",
		"/api/transactions",
		"/api/categories",
		"/api/reports",
		"/api/settings",
		"/api/me",
		"/ws/balances",
	}
	if h.cfg.ProtectBlog {
		prefixes = append(prefixes, "/api/blog")
	}
	return prefixes
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.SessionGate(h.sessions, h.protectedPrefixes()))

	router.Post("/api/signup", h.SignUp)
	router.Post("/api/signin", h.SignIn)
	router.Post("/api/signout", h.SignOut)
	router.Get("/api/me", h.Me)

	router.Get("/api/home", h.Home)
	router.Get("/api/accounts", h.ListAccounts)
	router.Get("/api/reports", h.MonthlyReport)

	router.Route("/api/transactions", func(r chi.Router) {
		r.Get("/", h.ListTransactions)
		r.Post("/", h.CreateTransaction)
		r.Put("/{id}", h.EditTransaction)
	})
	router.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Patch("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
	router.Patch("/api/settings/password", h.ChangePassword)

	router.Get("/api/blog", h.ListBlogPosts)
	router.Get("/api/blog/{slug}", h.GetBlogPost)

	router.Get("/ws/balances", h.WSBalances)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
