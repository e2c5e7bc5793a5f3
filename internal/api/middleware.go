package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/questify/questify/internal/auth"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/store"
)

type contextKey string

const claimsKey contextKey = "claims"

// bearerClaims validates the Authorization header and rejects revoked
// tokens. It returns nil claims when no usable token was sent.
func bearerClaims(r *http.Request, secret string, conn *db.DB) (*auth.Claims, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}

	claims, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, true
	}

	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(r.Context(), conn, claims.ID)
		if err != nil {
			slog.Error("failed to check token revocation", "error", err)
			return nil, true
		}
		if revoked {
			return nil, true
		}
	}
	return claims, true
}

// AuthMiddleware validates the bearer JWT, checks revocation, and adds the
// claims to the context.
func AuthMiddleware(secret string, conn *db.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, sent := bearerClaims(r, secret, conn)
			if !sent {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			if claims == nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth adds claims to the context when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(secret string, conn *db.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, _ := bearerClaims(r, secret, conn); claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// viewer returns the store bound to the request's user, anonymous when the
// request carries no claims.
func viewer(r *http.Request, conn *db.DB) *store.Scoped {
	if claims := GetClaims(r.Context()); claims != nil {
		return store.NewScoped(conn, claims.UserID)
	}
	return store.NewScoped(conn, "")
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
