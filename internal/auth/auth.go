// Package auth authenticates bearer tokens and carries the caller's
// identity and permission codes through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aanand-mishra/student-records-api/internal/apperr"
	"github.com/aanand-mishra/student-records-api/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated caller.
type Principal struct {
	PersonID    string
	Permissions []string
}

// Has reports whether the caller holds any of the permission codes.
func (p Principal) Has(codes ...string) bool {
	for _, c := range codes {
		if slices.Contains(p.Permissions, c) {
			return true
		}
	}
	return false
}

// Claims is the token payload. The subject is the person id.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the caller, or an empty principal for anonymous
// requests.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}

// Authenticator validates and issues HS256 tokens.
type Authenticator struct {
	secret []byte
	issuer string
	parser *jwt.Parser
	log    *slog.Logger
}

// New creates an Authenticator for secret and issuer.
func New(secret, issuer string, log *slog.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
		log: log,
	}
}

// IssueToken signs a token for personID valid for ttl.
func (a *Authenticator) IssueToken(personID string, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   personID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates token and returns its principal. An expired token is a
// session expired error; anything else wrong with it is a permission error.
func (a *Authenticator) Parse(token string) (Principal, error) {
	var claims Claims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperr.SessionExpired()
		}
		return Principal{}, apperr.Permission("invalid bearer token: %s", err.Error())
	}

	if claims.Subject == "" {
		return Principal{}, apperr.Permission("bearer token has no subject")
	}

	return Principal{PersonID: claims.Subject, Permissions: claims.Permissions}, nil
}

// Middleware rejects requests without a valid bearer token, except for
// the public paths.
func (a *Authenticator) Middleware(next http.Handler, public ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slices.Contains(public, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.WriteIntegrationError(w, http.StatusUnauthorized, apperr.Permission("A bearer token is required."))
			return
		}

		p, err := a.Parse(token)
		if err != nil {
			a.log.Info("rejected bearer token", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
			response.WriteIntegrationError(w, http.StatusUnauthorized, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

// String is used in log lines.
func (p Principal) String() string {
	return fmt.Sprintf("%s (%d permissions)", p.PersonID, len(p.Permissions))
}
