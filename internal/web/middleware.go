package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/questify/questify/internal/auth"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/store"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

// cookieClaims validates the session cookie and checks revocation. It
// returns nil when there is no usable session.
func cookieClaims(r *http.Request, secret string, conn *db.DB) (claims *auth.Claims, stale bool) {
	cookie, err := r.Cookie("token")
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	claims, err = auth.ValidateToken(secret, cookie.Value)
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
	return claims, false
}

// CookieAuthMiddleware requires a valid session cookie and otherwise
// redirects to the login page.
func CookieAuthMiddleware(secret string, conn *db.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, stale := cookieClaims(r, secret, conn)
			if stale {
				clearAuthCookie(w)
			}
			if claims == nil {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCookieAuth adds the session to the context when there is one.
func OptionalCookieAuth(secret string, conn *db.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, stale := cookieClaims(r, secret, conn)
			if stale {
				clearAuthCookie(w)
			}
			if claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), webClaimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// viewer returns the store bound to the signed-in user, or an anonymous one.
func (s *Server) viewer(r *http.Request) *store.Scoped {
	if claims := GetWebClaims(r.Context()); claims != nil {
		return store.NewScoped(s.DB, claims.UserID)
	}
	return store.NewScoped(s.DB, "")
}
