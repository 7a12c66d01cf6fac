package middleware

import (
	"context"
	"net/http"
	"strings"

	"finbuddy/internal/session"
)

type contextKey string

const identityKey contextKey = "session_identity"

func IdentityFromContext(ctx context.Context) (session.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(session.Identity)
	return identity, ok
}

func ContextWithIdentity(ctx context.Context, identity session.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// SessionGate verifies the session cookie in front of every request whose
// path matches one of the protected prefixes. Unauthenticated browser
// navigations are redirected to the sign-in page; API callers get a 401. The
// response is identical whether the cookie was missing, expired or forged.
func SessionGate(auth *session.Authenticator, protectedPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtected(r.URL.Path, protectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}
			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				deny(w, r)
				return
			}
			identity, err := auth.Verify(cookie.Value)
			if err != nil {
				// Stop the client from presenting a dead token again.
				auth.ClearCookie(w)
				deny(w, r)
				return
			}
			if renewed, expiry, err := auth.Renew(cookie.Value); err == nil {
				auth.SetCookie(w, renewed, expiry)
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func isProtected(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func deny(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/signin", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
