package api

import (
	"net/http"

	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/ratelimit"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(conn *db.DB, jwtSecret string, limiter *ratelimit.Limiter) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: conn, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: conn}
	engagementHandler := &EngagementHandler{DB: conn}
	profileHandler := &ProfileHandler{DB: conn}

	authMW := AuthMiddleware(jwtSecret, conn)
	optionalAuth := OptionalAuth(jwtSecret, conn)
	limit := ratelimit.Middleware(limiter, tooManyRequests)

	// Public: accounts.
	mux.Handle("POST /api/auth/signup", limit(http.HandlerFunc(authHandler.Signup)))
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(authHandler.Login)))

	// Authenticated account routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", limit(authMW(http.HandlerFunc(authHandler.ChangePassword))))

	// Items: read (anyone, contact details only when signed in), write (signed in, owner).
	mux.HandleFunc("GET /api/categories", itemsHandler.Categories)
	mux.Handle("GET /api/items", optionalAuth(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", limit(authMW(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", optionalAuth(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.SetStatus)))

	// Upvotes.
	mux.Handle("GET /api/items/{id}/upvote", authMW(http.HandlerFunc(engagementHandler.UpvoteStatus)))
	mux.Handle("POST /api/items/{id}/upvote", limit(authMW(http.HandlerFunc(engagementHandler.ToggleUpvote))))
	mux.Handle("PUT /api/items/{id}/upvote", limit(authMW(http.HandlerFunc(engagementHandler.AddUpvote))))
	mux.Handle("DELETE /api/items/{id}/upvote", limit(authMW(http.HandlerFunc(engagementHandler.RemoveUpvote))))

	// Comments.
	mux.HandleFunc("GET /api/items/{id}/comments", engagementHandler.ListComments)
	mux.Handle("POST /api/items/{id}/comments", limit(authMW(http.HandlerFunc(engagementHandler.AddComment))))

	// Profile.
	mux.Handle("GET /api/profile", authMW(http.HandlerFunc(profileHandler.Get)))
	mux.Handle("PUT /api/profile", limit(authMW(http.HandlerFunc(profileHandler.Update))))
	mux.Handle("PUT /api/profile/avatar", limit(authMW(http.HandlerFunc(profileHandler.UploadAvatar))))
	mux.Handle("GET /api/profile/items", authMW(http.HandlerFunc(profileHandler.Items)))
	mux.Handle("GET /api/profiles/{id}/avatar", Avatar(conn))

	return mux
}
