package web

import (
	"net/http"

	"github.com/questify/questify/internal/api"
	"github.com/questify/questify/internal/db"
	"github.com/questify/questify/internal/model"
	"github.com/questify/questify/internal/ratelimit"
	webembed "github.com/questify/questify/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(conn *db.DB, jwtSecret, baseURL string, limiter *ratelimit.Limiter) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        conn,
		Templates: templates,
		JWTSecret: jwtSecret,
		BaseURL:   baseURL,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(jwtSecret, conn)
	optional := OptionalCookieAuth(jwtSecret, conn)
	limit := ratelimit.Middleware(limiter, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too many requests. Please wait.", http.StatusTooManyRequests)
	})

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Accounts.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.Handle("POST /login", limit(http.HandlerFunc(s.LoginSubmit)))
	mux.HandleFunc("GET /signup", s.SignupPage)
	mux.Handle("POST /signup", limit(http.HandlerFunc(s.SignupSubmit)))
	mux.HandleFunc("POST /logout", s.Logout)

	// Public pages, session-aware.
	mux.Handle("GET /{$}", optional(http.HandlerFunc(s.Home)))
	mux.Handle("GET /lost", optional(s.Listing(model.ItemTypeLost)))
	mux.Handle("GET /found", optional(s.Listing(model.ItemTypeFound)))
	mux.Handle("GET /about", optional(http.HandlerFunc(s.AboutPage)))
	mux.Handle("GET /profiles/{id}/avatar", api.Avatar(conn))

	// Card actions report missing sessions as notices on the listing.
	mux.Handle("POST /items/{id}/upvote", limit(optional(http.HandlerFunc(s.UpvoteSubmit))))
	mux.Handle("GET /items/{id}/contact", optional(http.HandlerFunc(s.ContactPage)))
	mux.Handle("GET /items/{id}/comments", optional(http.HandlerFunc(s.CommentsPage)))
	mux.Handle("POST /items/{id}/comments", limit(optional(http.HandlerFunc(s.CommentSubmit))))

	// Authenticated pages.
	mux.Handle("GET /post", cookieAuth(http.HandlerFunc(s.PostPage)))
	mux.Handle("POST /post", limit(cookieAuth(http.HandlerFunc(s.PostSubmit))))
	mux.Handle("GET /profile", cookieAuth(http.HandlerFunc(s.ProfilePage)))
	mux.Handle("POST /profile", cookieAuth(http.HandlerFunc(s.ProfileSubmit)))
	mux.Handle("POST /profile/avatar", limit(cookieAuth(http.HandlerFunc(s.AvatarSubmit))))
	mux.Handle("POST /profile/password", limit(cookieAuth(http.HandlerFunc(s.PasswordSubmit))))
	mux.Handle("POST /profile/items/{id}/delete", cookieAuth(http.HandlerFunc(s.DeleteItemSubmit)))
	mux.Handle("POST /profile/items/{id}/resolve", cookieAuth(http.HandlerFunc(s.ResolveItemSubmit)))

	return mux, nil
}
