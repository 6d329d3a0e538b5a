// Package auth verifies HS256 bearer tokens and carries the calling identity
// through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/taxon/pkg/handlers"
)

var (
	// ErrUnauthorized indicates a missing, malformed, or invalid bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller without a permitted role.
	ErrForbidden = errors.New("forbidden")
)

// Caller identifies the authenticated principal of a request.
type Caller struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

type callerKey struct{}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller stored in ctx.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Authenticator verifies tokens and guards handlers.
type Authenticator struct {
	cfg    *Config
	leeway time.Duration
	logger *slog.Logger
}

// New creates an Authenticator. With no secret configured, every guard lets
// requests through and a warning is logged once.
func New(cfg *Config, logger *slog.Logger) *Authenticator {
	leeway, _ := parseLeeway(cfg.Leeway)
	a := &Authenticator{
		cfg:    cfg,
		leeway: leeway,
		logger: logger.With("system", "auth"),
	}
	if !cfg.Enabled() {
		a.logger.Warn("authentication disabled: no secret configured")
	}
	return a
}

// Parse verifies a raw token and extracts the caller. The caller id is read
// from the "id", "user_id", or "sub" claim, in that order.
func (a *Authenticator) Parse(raw string) (Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.leeway),
	}
	if a.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.cfg.Issuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(a.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return Caller{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	id := claimString(claims, "id", "user_id", "sub")
	if id == "" {
		return Caller{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}

	return Caller{ID: id, Role: claimString(claims, "role")}, nil
}

// Require returns middleware that rejects requests without a valid bearer
// token, and, when write roles are configured, callers outside those roles.
func (a *Authenticator) Require() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.cfg.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearer(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, ErrUnauthorized)
				return
			}

			caller, err := a.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				handlers.RespondError(w, a.logger, http.StatusUnauthorized, err)
				return
			}

			if len(a.cfg.WriteRoles) > 0 && !slices.Contains(a.cfg.WriteRoles, caller.Role) {
				err := fmt.Errorf("%w: role %q not permitted", ErrForbidden, caller.Role)
				handlers.RespondError(w, a.logger, http.StatusForbidden, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// Sign issues an HS256 token for c that expires after ttl. It exists for
// operators and tests; the service itself never issues tokens.
func Sign(secret string, c Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": c.ID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if c.Role != "" {
		claims["role"] = c.Role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// claimString returns the first present claim rendered as a string.
// Numeric ids arrive as float64 from JSON.
func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func parseLeeway(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
