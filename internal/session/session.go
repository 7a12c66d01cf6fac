// Package session implements stateless signed-token authentication. Tokens
// are HS256 JWTs carrying the user identity and an absolute expiry; nothing
// is stored server-side.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated covers every verification failure: missing token, bad
// signature, wrong algorithm, expired or malformed claims. Callers must not
// distinguish between the causes.
var ErrUnauthenticated = errors.New("unauthenticated")

// Leeway tolerated on expiry checks to absorb clock skew between hosts.
const expiryLeeway = 15 * time.Second

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Claims struct {
	User Identity `json:"user"`
	// SessionStart is the unix time the session was first issued. Sliding
	// renewal carries it forward so total session length stays capped.
	SessionStart int64 `json:"sst"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	// TTL is the validity window of a single token.
	TTL time.Duration
	// MaxAge is the hard ceiling on total session length across renewals.
	MaxAge time.Duration
	// Secure controls the cookie Secure attribute.
	Secure bool
}

type Authenticator struct {
	secret []byte
	ttl    time.Duration
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func New(cfg Config) *Authenticator {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	maxAge := cfg.MaxAge
	if maxAge < ttl {
		maxAge = ttl
	}
	return &Authenticator{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		maxAge: maxAge,
		secure: cfg.Secure,
		now:    time.Now,
	}
}

// Issue mints a fresh token for user, valid for the configured TTL. It has no
// side effects; the caller stores the token as a cookie with matching expiry.
func (a *Authenticator) Issue(user Identity) (string, time.Time, error) {
	now := a.now()
	return a.sign(user, now.Unix(), now, now.Add(a.ttl))
}

// Verify checks the token signature, algorithm and expiry and returns the
// embedded identity. Any failure collapses to ErrUnauthenticated.
func (a *Authenticator) Verify(token string) (Identity, error) {
	claims, err := a.parse(token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	return claims.User, nil
}

// Renew reissues a valid token with a fresh expiry window. The new expiry
// never extends past session start plus MaxAge; once that ceiling leaves no
// room for a longer window, Renew fails and the current token simply runs out.
func (a *Authenticator) Renew(token string) (string, time.Time, error) {
	claims, err := a.parse(token)
	if err != nil {
		return "", time.Time{}, ErrUnauthenticated
	}
	now := a.now()
	start := claims.SessionStart
	if start == 0 {
		start = now.Unix()
	}
	ceiling := time.Unix(start, 0).Add(a.maxAge)
	expiry := now.Add(a.ttl)
	if expiry.After(ceiling) {
		expiry = ceiling
	}
	if !expiry.After(now) {
		return "", time.Time{}, ErrUnauthenticated
	}
	if claims.ExpiresAt != nil && !expiry.After(claims.ExpiresAt.Time) {
		// Nothing to gain from reissuing a shorter-lived token.
		return "", time.Time{}, ErrUnauthenticated
	}
	return a.sign(claims.User, start, now, expiry)
}

func (a *Authenticator) sign(user Identity, sessionStart int64, issuedAt, expiry time.Time) (string, time.Time, error) {
	claims := Claims{
		User:         user,
		SessionStart: sessionStart,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(expiryLeeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthenticated
	}
	if claims.User.ID == "" {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
