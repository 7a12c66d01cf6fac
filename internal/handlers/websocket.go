package handlers

import (
	"net/http"

	"finbuddy/internal/middleware"
	"finbuddy/internal/websocket"
)

// WSBalances streams balance updates for the authenticated user. The session
// gate has already verified the cookie by the time this runs.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	websocket.ServeBalances(w, r, h.hub, identity.ID, h.cfg.AllowedOrigins)
}
